package extraction

import (
	"testing"

	"verbatim/internal/taxonomy"
	"verbatim/internal/transcript"
)

func testSession() *transcript.Session {
	return &transcript.Session{
		ID:    "s1",
		Title: "Checkout walkthrough",
		Speakers: []transcript.Speaker{
			{ID: "p1", Name: "Jordan", Role: transcript.RoleParticipant},
			{ID: "mod", Name: "Sam", Role: transcript.RoleModerator},
		},
		Utterances: []transcript.Utterance{
			{Speaker: "mod", Start: 0, End: 4000, Text: "Try adding the item to your cart."},
			{Speaker: "p1", Start: 4500, End: 9000, Text: "Oh, that's not what I expected."},
			{Speaker: "p1", Start: 9500, End: 12000, Text: "Where did the button go? I can't find it anywhere."},
			{Speaker: "p1", Start: 12500, End: 15000, Text: "Okay, that worked. I like how fast it was."},
			{Speaker: "p1", Start: 15500, End: 18000, Text: "I clicked the cart icon."},
		},
	}
}

func testSet(t *testing.T, sessions ...*transcript.Session) *transcript.Set {
	t.Helper()
	if len(sessions) == 0 {
		sessions = []*transcript.Session{testSession()}
	}
	set, err := transcript.NewSet(sessions)
	if err != nil {
		t.Fatalf("build session set: %v", err)
	}
	return set
}

func testRegistry() *taxonomy.Registry {
	return taxonomy.NewRegistry()
}
