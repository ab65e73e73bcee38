package extraction

import (
	"fmt"
	"strings"

	"verbatim/internal/taxonomy"
	"verbatim/internal/transcript"
)

// RejectReason identifies which invariant a candidate violated.
type RejectReason string

const (
	ReasonUnattributedSpan RejectReason = "unattributed_span"
	ReasonUnknownSentiment RejectReason = "unknown_sentiment"
	ReasonEmptyText        RejectReason = "empty_text"
	ReasonTextTooLong      RejectReason = "text_too_long"
)

// UnattributedSpanError reports a candidate whose span does not lie within a
// single known utterance of the referenced session.
type UnattributedSpanError struct {
	SessionID string
	SpeakerID string
	Start     transcript.Timecode
	End       transcript.Timecode
}

func (e *UnattributedSpanError) Error() string {
	return fmt.Sprintf(
		"span [%s, %s] for speaker %q is not attributable to a single utterance of session %q",
		e.Start, e.End, e.SpeakerID, e.SessionID,
	)
}

// Rejection records why a candidate was discarded. Rejections feed the
// diagnostic summary; they are never surfaced to the report.
type Rejection struct {
	Candidate Candidate
	Reason    RejectReason
	Err       error
}

// ValidateCandidate enforces the schema invariants on one candidate and
// returns either the normalized candidate ready for merge or a rejection.
//
// Checks run in order, each with a distinct reason: span attribution,
// sentiment membership, intensity range (clamped, never rejected), and text
// sanity against the source utterance. The function is pure: no network or
// disk I/O.
func ValidateCandidate(reg *taxonomy.Registry, set *transcript.Set, candidate Candidate) (Candidate, *Rejection) {
	session, ok := set.Session(candidate.SessionID)
	if !ok {
		err := &UnattributedSpanError{
			SessionID: candidate.SessionID,
			SpeakerID: candidate.SpeakerID,
			Start:     candidate.Start,
			End:       candidate.End,
		}
		return Candidate{}, &Rejection{Candidate: candidate, Reason: ReasonUnattributedSpan, Err: err}
	}
	utterance, ok := session.UtteranceAt(candidate.SpeakerID, candidate.Start, candidate.End)
	if !ok {
		err := &UnattributedSpanError{
			SessionID: candidate.SessionID,
			SpeakerID: candidate.SpeakerID,
			Start:     candidate.Start,
			End:       candidate.End,
		}
		return Candidate{}, &Rejection{Candidate: candidate, Reason: ReasonUnattributedSpan, Err: err}
	}

	// The parser already clamps unknown tokens to absent, so a violation here
	// means a candidate source bypassed the registry.
	if candidate.Sentiment != taxonomy.None && !reg.Contains(candidate.Sentiment) {
		err := &taxonomy.UnknownSentimentError{Token: string(candidate.Sentiment)}
		return Candidate{}, &Rejection{Candidate: candidate, Reason: ReasonUnknownSentiment, Err: err}
	}

	candidate.Intensity = taxonomy.ClampIntensity(candidate.Intensity)

	candidate.Text = strings.TrimSpace(candidate.Text)
	if candidate.Text == "" {
		return Candidate{}, &Rejection{Candidate: candidate, Reason: ReasonEmptyText}
	}
	if len([]rune(candidate.Text)) > len([]rune(utterance.Text)) {
		return Candidate{}, &Rejection{
			Candidate: candidate,
			Reason:    ReasonTextTooLong,
			Err:       fmt.Errorf("quote text exceeds utterance length (%d > %d runes)", len([]rune(candidate.Text)), len([]rune(utterance.Text))),
		}
	}

	return candidate, nil
}
