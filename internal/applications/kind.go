// Package applications implements the event application flow: the window
// gate, session drafts, field validation, submission recording, and the
// form → confirm → submit lifecycle shared by both application kinds.
package applications

import "fmt"

// Kind selects the application variant. Performer and stall applications
// share one lifecycle but have different field sets.
type Kind string

const (
	KindPerformer Kind = "performer"
	KindStall     Kind = "stall"
)

// ParseKind validates a kind taken from a URL segment.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPerformer, KindStall:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown application kind %q", s)
}

// Label returns the Japanese display label used in page titles.
func (k Kind) Label() string {
	if k == KindStall {
		return "出店申込"
	}
	return "出演申込"
}
