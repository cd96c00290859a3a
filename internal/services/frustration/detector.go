// internal/services/frustration/detector.go

// Package frustration flags user messages that signal the conversation
// is going badly, so the intake flow can pause and offer encouragement
// instead of re-asking its current question.
package frustration

import "strings"

var keywords = []string{
	"frustrated", "angry", "annoyed", "speak to human", "talk to someone",
	"real person", "agent", "representative", "this is ridiculous",
	"hate this", "stupid", "useless", "waste of time", "give up",
	"help me", "not working", "doesn't work", "broken",
}

type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

// IsFrustrated reports whether the text contains any frustration
// keyword. Matching is case-insensitive substring search.
func (d *Detector) IsFrustrated(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
