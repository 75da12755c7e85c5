// Package feedback asks an LLM writing coach for structured craft feedback.
package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// MinWords is the shortest draft the coach will read.
	MinWords = 200
	// MaxChars is the number of characters of the draft sent upstream.
	MaxChars = 6000
)

var (
	// ErrTooShort reports a draft below MinWords.
	ErrTooShort = errors.New("need at least 200 words for analysis")
	// ErrFailed is the single user-facing failure for any upstream problem.
	ErrFailed = errors.New("analysis failed, please try again")
	// ErrDisabled reports that no provider is configured.
	ErrDisabled = errors.New("feedback is disabled: no provider configured")
)

// Feedback is the coach's structured reading of a draft.
type Feedback struct {
	VoiceObservation      string            `json:"voiceObservation"`
	EmotionalUndercurrent string            `json:"emotionalUndercurrent"`
	HiddenStrength        string            `json:"hiddenStrength"`
	PrimaryWeakness       PrimaryWeakness   `json:"primaryWeakness"`
	SecondaryWeakness     SecondaryWeakness `json:"secondaryWeakness"`
	SentenceToRevise      SentenceRevision  `json:"sentenceToRevise"`
	QuestionToSitWith     string            `json:"questionToSitWith"`
}

// PrimaryWeakness is the main craft issue with a focus for tomorrow.
type PrimaryWeakness struct {
	Name          string `json:"name"`
	Observation   string `json:"observation"`
	WhyItMatters  string `json:"whyItMatters"`
	TomorrowFocus string `json:"tomorrowFocus"`
	MicroExercise string `json:"microExercise"`
}

// SecondaryWeakness is a smaller issue with a quick fix.
type SecondaryWeakness struct {
	Name        string `json:"name"`
	Observation string `json:"observation"`
	QuickFix    string `json:"quickFix"`
}

// SentenceRevision shows one sentence rewritten.
type SentenceRevision struct {
	Original  string `json:"original"`
	Revised   string `json:"revised"`
	Principle string `json:"principle"`
}

// Parse decodes a model reply, ignoring markdown code fences around the JSON.
func Parse(reply string) (Feedback, error) {
	cleaned := strings.ReplaceAll(reply, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var fb Feedback
	if err := json.Unmarshal([]byte(cleaned), &fb); err != nil {
		return Feedback{}, fmt.Errorf("failed to decode feedback: %w", err)
	}
	return fb, nil
}

// NeedMoreWords returns how many words text is short of MinWords.
func NeedMoreWords(words int) int {
	if words >= MinWords {
		return 0
	}
	return MinWords - words
}
