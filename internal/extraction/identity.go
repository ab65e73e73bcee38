package extraction

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
)

// quoteIDLength is the number of hex characters kept from the content hash.
// 16 characters (64 bits) keeps identifiers short enough for deep links
// while making collisions within a corpus implausible.
const quoteIDLength = 16

var foldCaser = cases.Fold()

// NormalizeText produces the case- and whitespace-insensitive form of a
// quote used for dedup grouping and identity hashing.
func NormalizeText(text string) string {
	folded := foldCaser.String(strings.TrimSpace(text))
	return strings.Join(strings.Fields(folded), " ")
}

// QuoteID derives the deterministic identifier of an accepted quote from its
// canonical fields. Repeated pipeline runs on unchanged input reproduce the
// same identifier regardless of ordering or retry count, so downstream
// reports and user annotations stay stable.
func QuoteID(sessionID, speakerID, text string) string {
	h := sha256.New()
	h.Write([]byte(sessionID))
	h.Write([]byte{0})
	h.Write([]byte(speakerID))
	h.Write([]byte{0})
	h.Write([]byte(NormalizeText(text)))
	return hex.EncodeToString(h.Sum(nil))[:quoteIDLength]
}
