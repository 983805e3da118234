package recognition

import "strings"

// Outcome classifies a Reading.
type Outcome int

const (
	OK Outcome = iota
	NotReady
	NoRegion
	CaptureFailed
	NoText
	RecognizeFailed
	ParseFailed
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case NotReady:
		return "not_ready"
	case NoRegion:
		return "no_region"
	case CaptureFailed:
		return "capture_failed"
	case NoText:
		return "no_text"
	case RecognizeFailed:
		return "recognize_failed"
	case ParseFailed:
		return "parse_failed"
	default:
		return "unknown"
	}
}

// Reading is the result of recognizing one region.
type Reading struct {
	Outcome Outcome
	// Text is the width-folded concatenation of all tokens.
	Text   string
	Tokens []Token
	Err    error
}

// HasText reports whether anything was read.
func (r Reading) HasText() bool {
	return r.Outcome == OK && strings.TrimSpace(r.Text) != ""
}

// Failed reports whether capture or recognition broke, as opposed to the
// region simply being empty.
func (r Reading) Failed() bool {
	switch r.Outcome {
	case CaptureFailed, RecognizeFailed, ParseFailed:
		return true
	default:
		return false
	}
}
