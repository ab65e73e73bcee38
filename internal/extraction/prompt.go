package extraction

import (
	"fmt"
	"strings"

	"verbatim/internal/taxonomy"
	"verbatim/internal/transcript"
)

// quoteExtractionPromptTemplate is the system prompt sent to the LLM when
// extracting quotes from a transcript batch. The %s placeholder receives the
// taxonomy glossary so the model is told the closed vocabulary instead of
// being left to invent labels. Update this text centrally so every call
// stays in sync.
const quoteExtractionPromptTemplate = `You are an assistant that extracts notable verbatim quotes from usability-test transcripts.

A notable quote is a short span where a participant reveals how the product makes them feel, what they expect, or what they struggle with. Moderator instructions and small talk are almost never notable.

You may tag a quote with exactly one sentiment from this closed vocabulary:

%s

Rules:

- The quote text must be copied verbatim from a single numbered utterance. Never paraphrase, never join text from two utterances.
- Tag a sentiment only when the utterance clearly expresses it. A quote with no sentiment is valid and common: purely descriptive statements stay untagged. Omit the "sentiment" field rather than guessing.
- Never invent a sentiment label outside the vocabulary above.
- "intensity" rates how strongly the sentiment is expressed: 1 = mild, 2 = clear, 3 = intense. Use 1 when unsure. Omit it for untagged quotes.

You must respond ONLY with a JSON object like:
{"quotes": [{"utterance": 3, "quote": "verbatim text", "sentiment": "frustration", "intensity": 2}]}

Return {"quotes": []} when nothing in the batch is notable.`

// SystemPrompt renders the extraction system prompt with the registry's
// vocabulary embedded.
func SystemPrompt(reg *taxonomy.Registry) string {
	return fmt.Sprintf(quoteExtractionPromptTemplate, reg.PromptGlossary())
}

// AssembleRequests splits a session into bounded extraction requests of at
// most batchSize utterances, preserving utterance order so timecode
// attribution stays unambiguous. The same session input always produces the
// same requests.
func AssembleRequests(reg *taxonomy.Registry, session *transcript.Session, batchSize, pass int) []Request {
	if session == nil || len(session.Utterances) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	system := SystemPrompt(reg)

	var requests []Request
	for offset := 0; offset < len(session.Utterances); offset += batchSize {
		end := offset + batchSize
		if end > len(session.Utterances) {
			end = len(session.Utterances)
		}
		batch := session.Utterances[offset:end]
		requests = append(requests, Request{
			SessionID:  session.ID,
			Pass:       pass,
			Batch:      len(requests),
			Utterances: batch,
			System:     system,
			User:       renderUserPrompt(session, batch),
		})
	}
	return requests
}

func renderUserPrompt(session *transcript.Session, batch []transcript.Utterance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s", session.ID)
	if title := strings.TrimSpace(session.Title); title != "" {
		fmt.Fprintf(&b, " (%s)", title)
	}
	b.WriteString("\n\nUtterances:\n")
	for i, u := range batch {
		speaker, _ := session.Speaker(u.Speaker)
		role := speaker.Role
		if role == "" {
			role = transcript.RoleParticipant
		}
		fmt.Fprintf(&b, "%d. [%s-%s] %s (%s): %s\n", i+1, u.Start, u.End, speaker.DisplayName(), role, u.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}
