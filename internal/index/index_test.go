package index

import (
	"errors"
	"testing"

	"verbatim/internal/corpus"
	"verbatim/internal/taxonomy"
	"verbatim/internal/transcript"
)

func indexSet(t *testing.T) *transcript.Set {
	t.Helper()
	set, err := transcript.NewSet([]*transcript.Session{
		{
			ID: "s1",
			Speakers: []transcript.Speaker{
				{ID: "p1", Name: "Jordan", Role: transcript.RoleParticipant},
				{ID: "mod", Name: "Sam", Role: transcript.RoleModerator},
			},
			Utterances: []transcript.Utterance{
				{Speaker: "p1", Start: 4500, End: 9000, Text: "Oh, that's not what I expected."},
			},
		},
		{
			ID: "s2",
			Speakers: []transcript.Speaker{
				{ID: "p2", Role: transcript.RoleParticipant},
			},
		},
	})
	if err != nil {
		t.Fatalf("build session set: %v", err)
	}
	return set
}

func indexQuotes() []corpus.Quote {
	return []corpus.Quote{
		{ID: "q1", SessionID: "s1", SpeakerID: "p1", Start: 4500, End: 9000, Text: "Oh, that's not what I expected.", Sentiment: taxonomy.Surprise, Intensity: 2},
		{ID: "q2", SessionID: "s1", SpeakerID: "p1", Start: 9500, End: 12000, Text: "Where did the button go?", Sentiment: taxonomy.Frustration, Intensity: 3},
		{ID: "q3", SessionID: "s1", SpeakerID: "p1", Start: 12500, End: 15000, Text: "That worked.", Sentiment: taxonomy.Satisfaction, Intensity: 1},
		{ID: "q4", SessionID: "s1", SpeakerID: "p1", Start: 15500, End: 18000, Text: "I clicked the cart icon."},
		{ID: "q5", SessionID: "s2", SpeakerID: "p2", Start: 1000, End: 2000, Text: "Hmm, is that right?", Sentiment: taxonomy.Doubt, Intensity: 2},
	}
}

func TestBuildHistograms(t *testing.T) {
	idx, err := Build(taxonomy.NewRegistry(), indexSet(t), indexQuotes())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	g := idx.Global
	if g.Total != 5 {
		t.Fatalf("total = %d, want 5", g.Total)
	}
	if g.Untagged != 1 {
		t.Fatalf("untagged = %d, want 1", g.Untagged)
	}
	// Surprise counts as an investigation flag, not a valence.
	if g.InvestigationFlags != 1 {
		t.Fatalf("investigation flags = %d, want 1", g.InvestigationFlags)
	}
	if g.Negative != 2 || g.Positive != 1 || g.Neutral != 0 {
		t.Fatalf("valence totals = %d/%d/%d, want 2/1/0", g.Negative, g.Neutral, g.Positive)
	}
	if g.Counts[taxonomy.Surprise] != 1 || g.Counts[taxonomy.Frustration] != 1 {
		t.Fatalf("counts = %+v", g.Counts)
	}

	s1 := idx.Sessions["s1"]
	if s1 == nil || s1.Total != 4 {
		t.Fatalf("session s1 histogram = %+v", s1)
	}
	s2 := idx.Sessions["s2"]
	if s2 == nil || s2.Total != 1 || s2.Negative != 1 {
		t.Fatalf("session s2 histogram = %+v", s2)
	}
}

func TestBuildRefs(t *testing.T) {
	idx, err := Build(taxonomy.NewRegistry(), indexSet(t), indexQuotes())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	ref, ok := idx.Refs["q1"]
	if !ok {
		t.Fatal("q1 missing from refs")
	}
	if ref.SessionID != "s1" || ref.SpeakerID != "p1" || ref.Start != 4500 || ref.End != 9000 {
		t.Fatalf("ref = %+v", ref)
	}
	if len(idx.Refs) != 5 {
		t.Fatalf("ref count = %d, want 5", len(idx.Refs))
	}
}

func TestBuildSpeakerAggregates(t *testing.T) {
	idx, err := Build(taxonomy.NewRegistry(), indexSet(t), indexQuotes())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	agg := idx.Speakers["s1"]["p1"]
	if agg == nil {
		t.Fatal("missing aggregate for s1/p1")
	}
	if agg.QuoteCount != 4 {
		t.Fatalf("quote count = %d, want 4", agg.QuoteCount)
	}
	if agg.DisplayName != "Jordan" || agg.Role != transcript.RoleParticipant {
		t.Fatalf("speaker metadata = %+v", agg)
	}
	// Untagged quotes count toward volume but not the sentiment rollup.
	if len(agg.Sentiments) != 3 {
		t.Fatalf("sentiments = %+v", agg.Sentiments)
	}

	p2 := idx.Speakers["s2"]["p2"]
	if p2 == nil || p2.DisplayName != "P2" {
		t.Fatalf("aggregate for unnamed speaker = %+v", p2)
	}
}

func TestBuildUnknownSessionFails(t *testing.T) {
	quotes := []corpus.Quote{{ID: "qx", SessionID: "ghost", SpeakerID: "p1"}}
	_, err := Build(taxonomy.NewRegistry(), indexSet(t), quotes)
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if integrity.SessionID != "ghost" || integrity.SpeakerID != "" {
		t.Fatalf("integrity error = %+v", integrity)
	}
}

func TestBuildUnknownSpeakerFails(t *testing.T) {
	quotes := []corpus.Quote{{ID: "qx", SessionID: "s1", SpeakerID: "ghost"}}
	_, err := Build(taxonomy.NewRegistry(), indexSet(t), quotes)
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if integrity.SpeakerID != "ghost" {
		t.Fatalf("integrity error = %+v", integrity)
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	idx, err := Build(taxonomy.NewRegistry(), indexSet(t), nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if idx.Global.Total != 0 || len(idx.Refs) != 0 {
		t.Fatalf("empty corpus produced non-empty index: %+v", idx.Global)
	}
}
