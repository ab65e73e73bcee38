package corpus

import (
	"time"

	"verbatim/internal/taxonomy"
	"verbatim/internal/transcript"
)

// Origin records which extraction pass and batch produced (or re-produced) a
// quote.
type Origin struct {
	Pass  int `json:"pass"`
	Batch int `json:"batch"`
}

// Alternative is a sentiment classification that lost a merge tie-break.
// Kept so disagreements between passes stay auditable.
type Alternative struct {
	Sentiment taxonomy.Sentiment `json:"sentiment"`
	Intensity int                `json:"intensity"`
	Pass      int                `json:"pass"`
}

// Quote is a validated, deduplicated, canonically identified quote.
//
// Invariants (enforced upstream, assumed here):
//   - Sentiment is a vocabulary member or taxonomy.None, never any other
//     string.
//   - Intensity is in [1, 3]; it is meaningless while Sentiment is None but
//     still stored.
//   - The [Start, End] span lies within a single utterance of the session.
//   - ID is a stable content hash, unaffected by ordering or retry count.
type Quote struct {
	ID           string              `json:"id"`
	SessionID    string              `json:"session_id"`
	SpeakerID    string              `json:"speaker_id"`
	Start        transcript.Timecode `json:"start_ms"`
	End          transcript.Timecode `json:"end_ms"`
	Text         string              `json:"text"`
	Sentiment    taxonomy.Sentiment  `json:"sentiment,omitempty"`
	Intensity    int                 `json:"intensity"`
	Provenance   []Origin            `json:"provenance"`
	Alternatives []Alternative       `json:"alternatives,omitempty"`
}

// Tagged reports whether the quote carries a sentiment.
func (q Quote) Tagged() bool {
	return q.Sentiment != taxonomy.None
}

// SessionDiagnostics summarizes pipeline accounting for one session.
type SessionDiagnostics struct {
	SessionID     string `json:"session_id"`
	Batches       int    `json:"batches"`
	FailedBatches int    `json:"failed_batches"`
	Parsed        int    `json:"parsed"`
	Skipped       int    `json:"skipped"`
	Rejected      int    `json:"rejected"`
	Merged        int    `json:"merged"`
	Accepted      int    `json:"accepted"`
}

// Diagnostics is the per-run summary stored alongside the corpus. The run
// never silently substitutes guessed data for a rejected candidate; these
// counts are the audit trail.
type Diagnostics struct {
	Sessions []SessionDiagnostics `json:"sessions"`
}

// Totals sums the per-session counts.
func (d Diagnostics) Totals() SessionDiagnostics {
	var total SessionDiagnostics
	total.SessionID = "total"
	for _, s := range d.Sessions {
		total.Batches += s.Batches
		total.FailedBatches += s.FailedBatches
		total.Parsed += s.Parsed
		total.Skipped += s.Skipped
		total.Rejected += s.Rejected
		total.Merged += s.Merged
		total.Accepted += s.Accepted
	}
	return total
}

// Snapshot is one pipeline run's corpus plus its audit summary.
type Snapshot struct {
	RunID       string      `json:"run_id"`
	Source      string      `json:"source"`
	CreatedAt   time.Time   `json:"created_at"`
	Quotes      []Quote     `json:"quotes"`
	Diagnostics Diagnostics `json:"diagnostics"`
}
