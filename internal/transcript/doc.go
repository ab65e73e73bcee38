// Package transcript models the timecoded, speaker-attributed session
// transcripts produced by the upstream transcription stage.
//
// Sessions and utterances are read-only inputs to the extraction pipeline:
// the loader verifies structural invariants (monotonic utterance timecodes,
// known speaker references) once, and everything downstream assumes they
// hold. The Set type provides the session/speaker lookups the validator and
// indexer need.
package transcript
