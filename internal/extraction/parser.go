package extraction

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"verbatim/internal/services/llm"
	"verbatim/internal/taxonomy"
)

// ParseReport counts what the parser did with one completion. Skipped items
// are logged and dropped, never fatal.
type ParseReport struct {
	Parsed  int
	Skipped int
}

// completionEnvelope tolerates the shapes models actually produce: the
// requested {"quotes": [...]} object, a bare array, or singular "quote" keys.
type completionEnvelope struct {
	Quotes []rawQuoteItem `json:"quotes"`
}

type rawQuoteItem struct {
	Utterance flexInt `json:"utterance"`
	Index     flexInt `json:"index"`
	Quote     string  `json:"quote"`
	Text      string  `json:"text"`
	Sentiment string  `json:"sentiment"`
	Intensity flexInt `json:"intensity"`
}

// flexInt decodes an integer that models sometimes emit as a float or a
// quoted string. Absent or undecodable values leave ok false.
type flexInt struct {
	value int
	ok    bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	trimmed = strings.Trim(trimmed, `"`)
	if trimmed == "" {
		return nil
	}
	if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
		f.value = int(parsed)
		f.ok = true
	}
	// Undecodable values are treated as absent, not as an item failure.
	return nil
}

// ParseCompletion turns one raw model completion into candidate quotes.
//
// A completion whose overall shape cannot be decoded returns an error; the
// orchestrator counts that as a failed batch and moves on. A single
// malformed item is dropped and counted in the report. An unrecognized
// sentiment token clamps to absent rather than rejecting the candidate: the
// quote text is worth keeping even when the classification is not.
// Out-of-range intensity clamps to the nearest valid bound.
func ParseCompletion(reg *taxonomy.Registry, req Request, completion string) ([]Candidate, ParseReport, error) {
	var report ParseReport

	items, err := decodeCompletionItems(completion)
	if err != nil {
		return nil, report, fmt.Errorf("parse completion: %w", err)
	}

	candidates := make([]Candidate, 0, len(items))
	for _, item := range items {
		candidate, ok := candidateFromItem(reg, req, item)
		if !ok {
			report.Skipped++
			continue
		}
		report.Parsed++
		candidates = append(candidates, candidate)
	}
	return candidates, report, nil
}

func decodeCompletionItems(completion string) ([]rawQuoteItem, error) {
	var envelope completionEnvelope
	if err := llm.DecodeJSON(completion, &envelope); err == nil && envelope.Quotes != nil {
		return envelope.Quotes, nil
	}
	var items []rawQuoteItem
	if err := llm.DecodeJSON(completion, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func candidateFromItem(reg *taxonomy.Registry, req Request, item rawQuoteItem) (Candidate, bool) {
	index := item.Utterance
	if !index.ok {
		index = item.Index
	}
	// The prompt numbers utterances from 1 within the batch.
	if !index.ok || index.value < 1 || index.value > len(req.Utterances) {
		return Candidate{}, false
	}
	utterance := req.Utterances[index.value-1]

	text := strings.TrimSpace(item.Quote)
	if text == "" {
		text = strings.TrimSpace(item.Text)
	}
	if text == "" {
		return Candidate{}, false
	}

	sentiment := taxonomy.None
	if token := strings.TrimSpace(item.Sentiment); token != "" {
		if classified, err := reg.Classify(token); err == nil {
			sentiment = classified
		}
		// Unknown token: keep the quote, lose only the classification.
	}

	intensity := taxonomy.MinIntensity
	if item.Intensity.ok {
		intensity = taxonomy.ClampIntensity(item.Intensity.value)
	}

	return Candidate{
		SessionID: req.SessionID,
		SpeakerID: utterance.Speaker,
		Start:     utterance.Start,
		End:       utterance.End,
		Text:      text,
		Sentiment: sentiment,
		Intensity: intensity,
		Pass:      req.Pass,
		Batch:     req.Batch,
	}, true
}

var _ json.Unmarshaler = (*flexInt)(nil)
