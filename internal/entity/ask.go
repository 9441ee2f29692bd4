package entity

import "fmt"

// AskMode selects how a question is answered.
type AskMode string

const (
	AskModeRetrieve   AskMode = "retrieve"
	AskModeSynthesize AskMode = "synthesize"
)

func (m AskMode) Validate() error {
	switch m {
	case AskModeRetrieve, AskModeSynthesize:
		return nil
	default:
		return fmt.Errorf("%w: unknown answer_mode %q", ErrInvalidParameter, string(m))
	}
}

// AskOutcomeMode is the terminal state of the synthesis decision.
type AskOutcomeMode string

const (
	AskOutcomeNoSources     AskOutcomeMode = "no_sources"
	AskOutcomeRetrieveOnly  AskOutcomeMode = "retrieve_only"
	AskOutcomeLowConfidence AskOutcomeMode = "low_confidence"
	AskOutcomeSynthesized   AskOutcomeMode = "synthesized"
)

// SkippedReason explains why synthesis was not performed.
type SkippedReason string

const (
	SkippedNoSources      SkippedReason = "no_sources"
	SkippedRetrieveOnly   SkippedReason = "retrieve_only"
	SkippedBelowThreshold SkippedReason = "below_threshold"
	SkippedLLMUnreachable SkippedReason = "llm_unreachable"
	SkippedLLMError       SkippedReason = "llm_error"
)

// AskRequest is the query contract of the processing tier.
type AskRequest struct {
	Query      string  `json:"query"`
	K          int     `json:"k"`
	DocumentID string  `json:"document_id,omitempty"`
	Path       string  `json:"path,omitempty"`
	Kind       Kind    `json:"kind,omitempty"`
	AnswerMode AskMode `json:"answer_mode"`
}

// Normalize applies defaults for optional request fields.
func (r *AskRequest) Normalize() {
	if r.K <= 0 {
		r.K = 5
	}
	if r.AnswerMode == "" {
		r.AnswerMode = AskModeRetrieve
	}
}

// AskOutcome is the full answer to one question. Sources are always
// present when retrieval found anything; FinalAnswer only in
// synthesized mode.
type AskOutcome struct {
	Mode          AskOutcomeMode `json:"mode"`
	Sources       []Hit          `json:"sources"`
	FinalAnswer   string         `json:"final_answer,omitempty"`
	SkippedReason SkippedReason  `json:"skipped_reason,omitempty"`
	TopScore      float64        `json:"top_score,omitempty"`
	Threshold     float64        `json:"threshold,omitempty"`
}
