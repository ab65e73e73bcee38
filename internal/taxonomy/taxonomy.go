package taxonomy

import (
	"fmt"
	"strings"
)

// Sentiment is one label from the closed vocabulary, or None when a quote is
// purely descriptive and carries no tag.
type Sentiment string

const (
	None         Sentiment = ""
	Frustration  Sentiment = "frustration"
	Confusion    Sentiment = "confusion"
	Doubt        Sentiment = "doubt"
	Surprise     Sentiment = "surprise"
	Satisfaction Sentiment = "satisfaction"
	Delight      Sentiment = "delight"
	Confidence   Sentiment = "confidence"
)

// Valence groups sentiments for aggregate reporting only.
type Valence string

const (
	ValenceNegative Valence = "negative"
	ValenceNeutral  Valence = "neutral"
	ValencePositive Valence = "positive"
)

// Intensity bounds for a present sentiment.
const (
	MinIntensity = 1
	MaxIntensity = 3
)

// ClampIntensity forces a reported intensity into the valid range. Values
// below the range clamp to MinIntensity, values above to MaxIntensity.
func ClampIntensity(value int) int {
	if value < MinIntensity {
		return MinIntensity
	}
	if value > MaxIntensity {
		return MaxIntensity
	}
	return value
}

// Definition describes one sentiment label for prompts and reports.
type Definition struct {
	Label       Sentiment
	Valence     Valence
	Summary     string
	Investigate bool
}

// UnknownSentimentError reports a token that is not part of the vocabulary.
type UnknownSentimentError struct {
	Token string
}

func (e *UnknownSentimentError) Error() string {
	return fmt.Sprintf("unknown sentiment %q", e.Token)
}

// Registry is an immutable lookup over the sentiment vocabulary. Construct it
// with NewRegistry and pass the value into the components that need label
// checks; there is no package-level singleton.
type Registry struct {
	order []Sentiment
	table map[Sentiment]Definition
}

// NewRegistry builds the registry over the fixed vocabulary.
func NewRegistry() *Registry {
	defs := []Definition{
		{Label: Frustration, Valence: ValenceNegative, Summary: "the participant is blocked or annoyed by the product"},
		{Label: Confusion, Valence: ValenceNegative, Summary: "the participant does not understand what they see or what to do next"},
		{Label: Doubt, Valence: ValenceNegative, Summary: "the participant hesitates or distrusts an outcome"},
		{Label: Surprise, Valence: ValenceNeutral, Summary: "the product behaved differently than the participant expected", Investigate: true},
		{Label: Satisfaction, Valence: ValencePositive, Summary: "the participant completed something and is content with the result"},
		{Label: Delight, Valence: ValencePositive, Summary: "the participant expresses enjoyment beyond plain satisfaction"},
		{Label: Confidence, Valence: ValencePositive, Summary: "the participant knows what to do and trusts the product to do it"},
	}
	reg := &Registry{
		order: make([]Sentiment, 0, len(defs)),
		table: make(map[Sentiment]Definition, len(defs)),
	}
	for _, def := range defs {
		reg.order = append(reg.order, def.Label)
		reg.table[def.Label] = def
	}
	return reg
}

// Classify resolves a raw token to a vocabulary member. Matching is
// case-insensitive and ignores surrounding whitespace. The empty token is not
// classifiable; callers represent absence with None directly.
func (r *Registry) Classify(token string) (Sentiment, error) {
	normalized := Sentiment(strings.ToLower(strings.TrimSpace(token)))
	if normalized == None {
		return None, &UnknownSentimentError{Token: token}
	}
	if _, ok := r.table[normalized]; !ok {
		return None, &UnknownSentimentError{Token: token}
	}
	return normalized, nil
}

// Contains reports whether the sentiment is a vocabulary member. None is not
// a member; absence is modeled outside the vocabulary.
func (r *Registry) Contains(s Sentiment) bool {
	_, ok := r.table[s]
	return ok
}

// Valence returns the reporting valence for a vocabulary member.
func (r *Registry) Valence(s Sentiment) (Valence, error) {
	def, ok := r.table[s]
	if !ok {
		return "", &UnknownSentimentError{Token: string(s)}
	}
	return def.Valence, nil
}

// IsInvestigationFlag reports whether the sentiment marks a quote for
// researcher review instead of valence counting. True only for surprise.
func (r *Registry) IsInvestigationFlag(s Sentiment) bool {
	def, ok := r.table[s]
	return ok && def.Investigate
}

// Labels returns the vocabulary in stable definition order.
func (r *Registry) Labels() []Sentiment {
	cp := make([]Sentiment, len(r.order))
	copy(cp, r.order)
	return cp
}

// Definition returns the full definition for a vocabulary member.
func (r *Registry) Definition(s Sentiment) (Definition, bool) {
	def, ok := r.table[s]
	return def, ok
}

// PromptGlossary renders the vocabulary as one-line definitions suitable for
// embedding in an extraction prompt, in stable order.
func (r *Registry) PromptGlossary() string {
	var b strings.Builder
	for _, label := range r.order {
		def := r.table[label]
		fmt.Fprintf(&b, "- %q: %s\n", string(label), def.Summary)
	}
	return strings.TrimRight(b.String(), "\n")
}
