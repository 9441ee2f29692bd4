package ask

import "github.com/filescout/filescout-backend/internal/entity"

// Decision is the outcome of the synthesis gate. Synthesize is true
// only in the single state where a language-model call is permitted.
type Decision struct {
	Mode          entity.AskOutcomeMode
	SkippedReason entity.SkippedReason
	Synthesize    bool
}

// Decide is the pure synthesis gate. Given the request mode, the
// retrieval result, the configured threshold and the model's
// reachability it returns exactly one terminal state:
//
//	no hits                  -> no_sources
//	retrieve mode            -> retrieve_only
//	top score below threshold -> low_confidence (below_threshold)
//	model unreachable        -> low_confidence (llm_unreachable)
//	otherwise                -> synthesized
//
// Order matters: an explicit retrieve request never probes the model,
// and a below-threshold score is reported as such even when the model
// also happens to be down.
func Decide(mode entity.AskMode, hitCount int, topScore, threshold float64, reachable bool) Decision {
	if hitCount == 0 {
		return Decision{Mode: entity.AskOutcomeNoSources, SkippedReason: entity.SkippedNoSources}
	}
	if mode == entity.AskModeRetrieve {
		return Decision{Mode: entity.AskOutcomeRetrieveOnly, SkippedReason: entity.SkippedRetrieveOnly}
	}
	if topScore < threshold {
		return Decision{Mode: entity.AskOutcomeLowConfidence, SkippedReason: entity.SkippedBelowThreshold}
	}
	if !reachable {
		return Decision{Mode: entity.AskOutcomeLowConfidence, SkippedReason: entity.SkippedLLMUnreachable}
	}
	return Decision{Mode: entity.AskOutcomeSynthesized, Synthesize: true}
}
