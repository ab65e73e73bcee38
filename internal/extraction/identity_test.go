package extraction

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Oh, that's NOT what I expected.", "oh, that's not what i expected."},
		{"  spaced   out\ttext \n", "spaced out text"},
		{"already normal", "already normal"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := NormalizeText(tc.in); got != tc.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestQuoteIDDeterministic(t *testing.T) {
	a := QuoteID("s1", "p1", "Oh, that's not what I expected.")
	b := QuoteID("s1", "p1", "  oh,   THAT'S not what i expected. ")
	if a != b {
		t.Fatalf("case/whitespace variants produced different ids: %s vs %s", a, b)
	}
	if len(a) != quoteIDLength {
		t.Fatalf("id length = %d, want %d", len(a), quoteIDLength)
	}
}

func TestQuoteIDFieldSeparation(t *testing.T) {
	// Concatenation ambiguity between fields must not collide.
	a := QuoteID("s1p", "1", "text")
	b := QuoteID("s1", "p1", "text")
	if a == b {
		t.Fatal("field boundary ambiguity produced colliding ids")
	}
	if QuoteID("s1", "p1", "text") == QuoteID("s2", "p1", "text") {
		t.Fatal("session id not part of identity")
	}
	if QuoteID("s1", "p1", "text") == QuoteID("s1", "p2", "text") {
		t.Fatal("speaker id not part of identity")
	}
}
