package index

import (
	"fmt"

	"verbatim/internal/corpus"
	"verbatim/internal/taxonomy"
	"verbatim/internal/transcript"
)

// IntegrityError reports a quote referencing a session or speaker the
// transcript set does not know. Fatal to the run.
type IntegrityError struct {
	QuoteID   string
	SessionID string
	SpeakerID string
}

func (e *IntegrityError) Error() string {
	if e.SpeakerID != "" {
		return fmt.Sprintf("quote %s references unknown speaker %q in session %q", e.QuoteID, e.SpeakerID, e.SessionID)
	}
	return fmt.Sprintf("quote %s references unknown session %q", e.QuoteID, e.SessionID)
}

// Ref locates a quote inside its source recording for deep-linking.
type Ref struct {
	SessionID string              `json:"session_id"`
	SpeakerID string              `json:"speaker_id"`
	Start     transcript.Timecode `json:"start_ms"`
	End       transcript.Timecode `json:"end_ms"`
}

// Histogram counts sentiments over some slice of the corpus. Only tagged
// quotes contribute to Counts; surprise is tallied as an investigation flag
// and excluded from the valence totals.
type Histogram struct {
	Counts             map[taxonomy.Sentiment]int `json:"counts"`
	Negative           int                        `json:"negative"`
	Neutral            int                        `json:"neutral"`
	Positive           int                        `json:"positive"`
	InvestigationFlags int                        `json:"investigation_flags"`
	Untagged           int                        `json:"untagged"`
	Total              int                        `json:"total"`
}

func newHistogram() *Histogram {
	return &Histogram{Counts: make(map[taxonomy.Sentiment]int)}
}

func (h *Histogram) add(reg *taxonomy.Registry, sentiment taxonomy.Sentiment) error {
	h.Total++
	if sentiment == taxonomy.None {
		h.Untagged++
		return nil
	}
	h.Counts[sentiment]++
	if reg.IsInvestigationFlag(sentiment) {
		h.InvestigationFlags++
		return nil
	}
	valence, err := reg.Valence(sentiment)
	if err != nil {
		return err
	}
	switch valence {
	case taxonomy.ValenceNegative:
		h.Negative++
	case taxonomy.ValencePositive:
		h.Positive++
	case taxonomy.ValenceNeutral:
		h.Neutral++
	}
	return nil
}

// SpeakerAggregate is the per-speaker rollup consumed by the codebook view.
type SpeakerAggregate struct {
	SessionID   string                     `json:"session_id"`
	SpeakerID   string                     `json:"speaker_id"`
	DisplayName string                     `json:"display_name"`
	Role        transcript.SpeakerRole     `json:"role"`
	QuoteCount  int                        `json:"quote_count"`
	Sentiments  map[taxonomy.Sentiment]int `json:"sentiments"`
}

// Index is the cross-reference output consumed by rendering and the
// codebook: deep-link refs, sentiment histograms, and per-speaker rollups.
type Index struct {
	Refs     map[string]Ref
	Global   *Histogram
	Sessions map[string]*Histogram
	Speakers map[string]map[string]*SpeakerAggregate
}

// Build cross-references the corpus against the transcript set.
func Build(reg *taxonomy.Registry, set *transcript.Set, quotes []corpus.Quote) (*Index, error) {
	idx := &Index{
		Refs:     make(map[string]Ref, len(quotes)),
		Global:   newHistogram(),
		Sessions: make(map[string]*Histogram),
		Speakers: make(map[string]map[string]*SpeakerAggregate),
	}

	for _, quote := range quotes {
		session, ok := set.Session(quote.SessionID)
		if !ok {
			return nil, &IntegrityError{QuoteID: quote.ID, SessionID: quote.SessionID}
		}
		speaker, ok := session.Speaker(quote.SpeakerID)
		if !ok {
			return nil, &IntegrityError{QuoteID: quote.ID, SessionID: quote.SessionID, SpeakerID: quote.SpeakerID}
		}

		idx.Refs[quote.ID] = Ref{
			SessionID: quote.SessionID,
			SpeakerID: quote.SpeakerID,
			Start:     quote.Start,
			End:       quote.End,
		}

		if err := idx.Global.add(reg, quote.Sentiment); err != nil {
			return nil, err
		}
		sessionHist, ok := idx.Sessions[quote.SessionID]
		if !ok {
			sessionHist = newHistogram()
			idx.Sessions[quote.SessionID] = sessionHist
		}
		if err := sessionHist.add(reg, quote.Sentiment); err != nil {
			return nil, err
		}

		speakers, ok := idx.Speakers[quote.SessionID]
		if !ok {
			speakers = make(map[string]*SpeakerAggregate)
			idx.Speakers[quote.SessionID] = speakers
		}
		aggregate, ok := speakers[quote.SpeakerID]
		if !ok {
			aggregate = &SpeakerAggregate{
				SessionID:   quote.SessionID,
				SpeakerID:   quote.SpeakerID,
				DisplayName: speaker.DisplayName(),
				Role:        speaker.Role,
				Sentiments:  make(map[taxonomy.Sentiment]int),
			}
			speakers[quote.SpeakerID] = aggregate
		}
		aggregate.QuoteCount++
		if quote.Sentiment != taxonomy.None {
			aggregate.Sentiments[quote.Sentiment]++
		}
	}

	return idx, nil
}
