// Package extraction turns session transcripts into a validated, deduplicated
// quote corpus by driving an LLM capability.
//
// The pipeline stages live here: the request assembler batches utterances
// into bounded prompts, the completion parser tolerantly decodes model
// output into candidate quotes, the validator enforces schema invariants
// against the source transcript, and the merger collapses duplicates into
// canonical quotes with deterministic content-derived identifiers.
//
// The Runner orchestrates the stages: batch jobs run concurrently on a
// bounded worker pool, provider failures degrade a single batch's yield,
// and cancellation aborts the run before any corpus is produced. Parse,
// validate, and merge are synchronous and purely CPU-bound; only the
// provider call blocks.
package extraction
