package http

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"expertapp.arpa/app/generator"
)

const (
	pageTitle   = "💬 LLM Expert App"
	pageCaption = "Answers from the point of view of the expert you pick. Choose an expert in the sidebar and send your question."
)

//go:embed templates/index.html
var indexTemplate string

type page struct {
	tmpl     *template.Template
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

func newPage() *page {
	return &page{
		tmpl:     template.Must(template.New("index").Parse(indexTemplate)),
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
	}
}

type pageData struct {
	Title    string
	Caption  string
	Version  string
	Personas []personaOption
	Text     string
	Answer   *answer
}

type personaOption struct {
	Label    string
	Selected bool
}

type answer struct {
	Kind string
	Text string
	HTML template.HTML
}

// renderAnswer renders completions as sanitized markdown; validation and failure
// messages stay plain text.
func (p *page) renderAnswer(res generator.Result) *answer {
	a := &answer{Kind: res.Kind.String(), Text: res.String()}
	if res.Kind != generator.KindOK {
		return a
	}
	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(a.Text), &buf); err != nil {
		return a
	}
	a.HTML = template.HTML(p.policy.SanitizeBytes(buf.Bytes())) // #nosec G203 -- sanitized by bluemonday
	return a
}

func (h *Server) pageData(selected, text string) pageData {
	if _, ok := h.personas.Lookup(selected); !ok {
		selected = h.personas.Default().Label
	}
	labels := h.personas.Labels()
	options := make([]personaOption, len(labels))
	for i, label := range labels {
		options[i] = personaOption{Label: label, Selected: label == selected}
	}
	return pageData{
		Title:    pageTitle,
		Caption:  pageCaption,
		Version:  h.config.Version,
		Personas: options,
		Text:     text,
	}
}

func (h *Server) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.pageData(h.personas.Default().Label, ""))
}

func (h *Server) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseForm(); err != nil {
		h.log.Debug("Rejected form submission", zap.Error(err))
		http.Error(w, "Invalid form submission.", http.StatusBadRequest)
		return
	}
	label := r.PostFormValue("persona")
	text := r.PostFormValue("text")

	res := h.generator.Generate(r.Context(), text, label)

	data := h.pageData(label, text)
	data.Answer = h.page.renderAnswer(res)
	h.render(w, data)
}

func (h *Server) render(w http.ResponseWriter, data pageData) {
	var buf bytes.Buffer
	if err := h.page.tmpl.Execute(&buf, data); err != nil {
		h.log.Error("Failed to render page", zap.Error(err))
		http.Error(w, "Failed to render page.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
