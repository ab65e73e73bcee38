// Package index cross-references an accepted quote corpus against its
// session and speaker metadata for the report renderer and codebook.
//
// The indexer performs no validation: it assumes its input already satisfies
// the corpus invariants and fails loudly with *IntegrityError when a
// referenced session or speaker is missing, since that signals an upstream
// contract breach rather than a recoverable data-quality issue.
package index
