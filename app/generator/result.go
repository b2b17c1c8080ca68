package generator

import "fmt"

type Kind int

const (
	KindOK Kind = iota
	KindInvalid
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindInvalid:
		return "invalid"
	case KindFailed:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single generation: completion text, a validation
// message, or the failure returned by the completion client.
type Result struct {
	Kind Kind
	Text string
	Err  error
}

func OK(text string) Result {
	return Result{Kind: KindOK, Text: text}
}

func Invalid() Result {
	return Result{Kind: KindInvalid, Text: EmptyInputMessage}
}

func Failed(err error) Result {
	return Result{Kind: KindFailed, Err: err}
}

// String returns the text shown to the user.
func (r Result) String() string {
	if r.Kind != KindFailed {
		return r.Text
	}
	return fmt.Sprintf("%s\n\nDetails: %v", FailureHint, r.Err)
}
