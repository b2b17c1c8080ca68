// Package persona holds the expert personas that steer the completion model.
package persona

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Persona pairs a display label with the system instruction sent to the model.
type Persona struct {
	Label       string `json:"label" yaml:"label"`
	Instruction string `json:"instruction" yaml:"instruction"`
}

// Registry is an immutable, ordered set of personas. The first persona is the default.
type Registry struct {
	personas []Persona
	byLabel  map[string]int
}

func NewRegistry(personas ...Persona) (*Registry, error) {
	if len(personas) == 0 {
		return nil, errors.New("at least one persona is required")
	}
	r := &Registry{
		personas: make([]Persona, 0, len(personas)),
		byLabel:  make(map[string]int, len(personas)),
	}
	for i, p := range personas {
		if p.Label == "" {
			return nil, fmt.Errorf("persona %d: label is required", i)
		}
		if strings.TrimSpace(p.Instruction) == "" {
			return nil, fmt.Errorf("persona %q: instruction is required", p.Label)
		}
		if _, ok := r.byLabel[p.Label]; ok {
			return nil, fmt.Errorf("persona %q: duplicate label", p.Label)
		}
		r.byLabel[p.Label] = len(r.personas)
		r.personas = append(r.personas, p)
	}
	return r, nil
}

// Resolve returns the instruction for label, or the default persona's instruction
// when the label is unknown.
func (r *Registry) Resolve(label string) string {
	if p, ok := r.Lookup(label); ok {
		return p.Instruction
	}
	return r.Default().Instruction
}

func (r *Registry) Lookup(label string) (Persona, bool) {
	i, ok := r.byLabel[label]
	if !ok {
		return Persona{}, false
	}
	return r.personas[i], true
}

func (r *Registry) Default() Persona {
	return r.personas[0]
}

// Labels returns persona labels in definition order.
func (r *Registry) Labels() []string {
	labels := make([]string, len(r.personas))
	for i, p := range r.personas {
		labels[i] = p.Label
	}
	return labels
}

// Personas returns a copy of all personas in definition order.
func (r *Registry) Personas() []Persona {
	return slices.Clone(r.personas)
}
