package extraction

import (
	"sort"
	"strings"

	"verbatim/internal/corpus"
	"verbatim/internal/taxonomy"
	"verbatim/internal/transcript"
)

// Merge collapses normalized candidates from every extraction pass into
// canonical accepted quotes.
//
// Grouping key: (session id, speaker id, normalized text). Within a group:
//   - same sentiment throughout (or all absent): one record, highest
//     intensity wins as the representative intensity.
//   - differing sentiments: non-absent beats absent; between two non-absent
//     sentiments the later pass wins, and the displaced classification is
//     recorded as an alternative so the disagreement stays auditable.
//
// A second pass collapses near-duplicates: two quotes from the same speaker
// with overlapping spans and the same classification merge when one's
// normalized text contains the other's, keeping the longer rendering. Quotes
// whose classification differs stay separate.
//
// Identifiers are computed only after the merge, from the finalized
// canonical fields, so they are independent of candidate ordering and retry
// count. Merging an already-deduplicated set returns it unchanged.
func Merge(candidates []Candidate) []corpus.Quote {
	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	// Pass order drives the last-writer-wins tie-break; the remaining fields
	// pin a total order so merging is insensitive to input ordering.
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.SessionID != b.SessionID {
			return a.SessionID < b.SessionID
		}
		if a.Pass != b.Pass {
			return a.Pass < b.Pass
		}
		if a.Batch != b.Batch {
			return a.Batch < b.Batch
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.SpeakerID < b.SpeakerID
	})

	type groupKey struct {
		sessionID string
		speakerID string
		text      string
	}
	groups := make(map[groupKey]*mergeGroup)
	var order []groupKey

	for _, candidate := range ordered {
		key := groupKey{
			sessionID: candidate.SessionID,
			speakerID: candidate.SpeakerID,
			text:      NormalizeText(candidate.Text),
		}
		group, ok := groups[key]
		if !ok {
			group = &mergeGroup{}
			groups[key] = group
			order = append(order, key)
		}
		group.absorb(candidate)
	}

	quotes := make([]corpus.Quote, 0, len(order))
	for _, key := range order {
		quotes = append(quotes, groups[key].finalize())
	}
	return collapseNearDuplicates(quotes)
}

// collapseNearDuplicates folds quotes whose texts are substring-contained
// renderings of the same overlapping span into one record. Only quotes with
// the same classification collapse; a disagreement is signal, not noise.
func collapseNearDuplicates(quotes []corpus.Quote) []corpus.Quote {
	out := make([]corpus.Quote, 0, len(quotes))
	for _, quote := range quotes {
		kept := false
		for i := range out {
			if absorbNearDuplicate(&out[i], quote) {
				kept = true
				break
			}
		}
		if !kept {
			out = append(out, quote)
		}
	}
	return out
}

// absorbNearDuplicate merges candidate into kept when they are
// near-duplicates, preferring the longer text and re-deriving the identifier
// from it. Reports whether the merge happened.
func absorbNearDuplicate(kept *corpus.Quote, candidate corpus.Quote) bool {
	if kept.SessionID != candidate.SessionID || kept.SpeakerID != candidate.SpeakerID {
		return false
	}
	if candidate.Start > kept.End || kept.Start > candidate.End {
		return false
	}
	if kept.Sentiment != candidate.Sentiment {
		return false
	}
	keptText := NormalizeText(kept.Text)
	candidateText := NormalizeText(candidate.Text)
	if !strings.Contains(keptText, candidateText) && !strings.Contains(candidateText, keptText) {
		return false
	}

	if len(candidate.Text) > len(kept.Text) {
		kept.Text = candidate.Text
	}
	if candidate.Start < kept.Start {
		kept.Start = candidate.Start
	}
	if candidate.End > kept.End {
		kept.End = candidate.End
	}
	if candidate.Intensity > kept.Intensity {
		kept.Intensity = candidate.Intensity
	}
	for _, origin := range candidate.Provenance {
		kept.Provenance = appendOrigin(kept.Provenance, origin)
	}
	for _, alt := range candidate.Alternatives {
		kept.Alternatives = appendAlternative(kept.Alternatives, alt)
	}
	kept.ID = QuoteID(kept.SessionID, kept.SpeakerID, kept.Text)
	return true
}

type mergeGroup struct {
	first        bool
	sessionID    string
	speakerID    string
	start        transcript.Timecode
	end          transcript.Timecode
	text         string
	sentiment    taxonomy.Sentiment
	intensity    int
	winnerPass   int
	provenance   []corpus.Origin
	alternatives []corpus.Alternative
}

// absorb folds one candidate into the group. Candidates arrive in increasing
// pass order, so the most recent non-absent classification always wins.
func (g *mergeGroup) absorb(c Candidate) {
	g.provenance = appendOrigin(g.provenance, corpus.Origin{Pass: c.Pass, Batch: c.Batch})

	if !g.first {
		g.first = true
		g.sessionID = c.SessionID
		g.speakerID = c.SpeakerID
		g.start = c.Start
		g.end = c.End
		g.text = c.Text
		g.sentiment = c.Sentiment
		g.intensity = c.Intensity
		g.winnerPass = c.Pass
		return
	}

	// Keep the longest verbatim rendering of the span.
	if len(c.Text) > len(g.text) {
		g.text = c.Text
	}

	switch {
	case c.Sentiment == taxonomy.None:
		// A pass that detected no emotion never displaces one that did. In an
		// all-absent group the highest intensity still represents the group.
		if g.sentiment == taxonomy.None && c.Intensity > g.intensity {
			g.intensity = c.Intensity
		}
	case g.sentiment == taxonomy.None:
		g.sentiment = c.Sentiment
		g.intensity = c.Intensity
		g.winnerPass = c.Pass
	case g.sentiment == c.Sentiment:
		if c.Intensity > g.intensity {
			g.intensity = c.Intensity
		}
	default:
		g.alternatives = append(g.alternatives, corpus.Alternative{
			Sentiment: g.sentiment,
			Intensity: g.intensity,
			Pass:      g.winnerPass,
		})
		g.sentiment = c.Sentiment
		g.intensity = c.Intensity
		g.winnerPass = c.Pass
	}
}

func (g *mergeGroup) finalize() corpus.Quote {
	return corpus.Quote{
		ID:           QuoteID(g.sessionID, g.speakerID, g.text),
		SessionID:    g.sessionID,
		SpeakerID:    g.speakerID,
		Start:        g.start,
		End:          g.end,
		Text:         g.text,
		Sentiment:    g.sentiment,
		Intensity:    g.intensity,
		Provenance:   g.provenance,
		Alternatives: g.alternatives,
	}
}

func appendOrigin(origins []corpus.Origin, origin corpus.Origin) []corpus.Origin {
	for _, existing := range origins {
		if existing == origin {
			return origins
		}
	}
	return append(origins, origin)
}

func appendAlternative(alts []corpus.Alternative, alt corpus.Alternative) []corpus.Alternative {
	for _, existing := range alts {
		if existing == alt {
			return alts
		}
	}
	return append(alts, alt)
}
