package extraction

import (
	"verbatim/internal/taxonomy"
	"verbatim/internal/transcript"
)

// Request is one bounded extraction request covering a batch of utterances
// from a single session. Assembly is deterministic: identical session input
// yields identical requests.
type Request struct {
	SessionID  string
	Pass       int
	Batch      int
	Utterances []transcript.Utterance
	System     string
	User       string
}

// Candidate is an unvalidated quote produced by parsing one model
// completion. It may violate invariants; nothing downstream trusts it until
// the validator has normalized it.
type Candidate struct {
	SessionID string
	SpeakerID string
	Start     transcript.Timecode
	End       transcript.Timecode
	Text      string
	// Sentiment is taxonomy.None when the quote is purely descriptive or the
	// model produced a token outside the vocabulary.
	Sentiment taxonomy.Sentiment
	Intensity int
	// Provenance: which pass and batch produced this candidate.
	Pass  int
	Batch int
}
