// Package taxonomy defines the closed sentiment vocabulary used to tag
// extracted quotes.
//
// The Registry is the single source of truth for which strings are legal
// sentiment labels. Every other component routes label checks through
// Registry.Classify instead of hardcoding the set, so extending the taxonomy
// is a single-point change here.
//
// Valence is reporting metadata only: it feeds aggregate histograms and is
// never consulted during classification or merging. The surprise sentiment
// carries an investigation flag that aggregate output must surface separately
// from valence totals.
package taxonomy
