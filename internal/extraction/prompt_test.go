package extraction

import (
	"reflect"
	"strings"
	"testing"
)

func TestSystemPromptEmbedsVocabulary(t *testing.T) {
	prompt := SystemPrompt(testRegistry())
	for _, label := range testRegistry().Labels() {
		if !strings.Contains(prompt, `"`+string(label)+`"`) {
			t.Fatalf("prompt missing vocabulary label %q", label)
		}
	}
	if !strings.Contains(prompt, `{"quotes": []}`) {
		t.Fatal("prompt missing empty-result instruction")
	}
}

func TestAssembleRequestsBatching(t *testing.T) {
	session := testSession()
	requests := AssembleRequests(testRegistry(), session, 2, 1)
	if len(requests) != 3 {
		t.Fatalf("request count = %d, want 3", len(requests))
	}
	if len(requests[0].Utterances) != 2 || len(requests[2].Utterances) != 1 {
		t.Fatalf("uneven tail batch not preserved: %d/%d",
			len(requests[0].Utterances), len(requests[2].Utterances))
	}
	for i, req := range requests {
		if req.Batch != i {
			t.Fatalf("batch %d numbered %d", i, req.Batch)
		}
		if req.SessionID != session.ID || req.Pass != 1 {
			t.Fatalf("request metadata wrong: %+v", req)
		}
	}
	// Order preserved across batch boundaries.
	if requests[1].Utterances[0].Start != session.Utterances[2].Start {
		t.Fatal("batching reordered utterances")
	}
}

func TestAssembleRequestsDeterministic(t *testing.T) {
	first := AssembleRequests(testRegistry(), testSession(), 2, 1)
	second := AssembleRequests(testRegistry(), testSession(), 2, 1)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical input produced differing requests")
	}
}

func TestAssembleRequestsEmptySession(t *testing.T) {
	if got := AssembleRequests(testRegistry(), nil, 2, 1); got != nil {
		t.Fatalf("expected nil requests for nil session, got %d", len(got))
	}
}

func TestUserPromptNumbersUtterancesFromOne(t *testing.T) {
	requests := AssembleRequests(testRegistry(), testSession(), 3, 1)
	user := requests[0].User
	if !strings.Contains(user, "1. [00:00.000-00:04.000] Sam (moderator): Try adding the item to your cart.") {
		t.Fatalf("first utterance rendering wrong:\n%s", user)
	}
	if !strings.Contains(user, "2. [00:04.500-00:09.000] Jordan (participant): Oh, that's not what I expected.") {
		t.Fatalf("second utterance rendering wrong:\n%s", user)
	}
	if !strings.Contains(user, "Session s1 (Checkout walkthrough)") {
		t.Fatalf("session header missing:\n%s", user)
	}
	// The second batch restarts numbering at 1.
	second := requests[1].User
	if !strings.Contains(second, "1. [00:12.500-00:15.000]") {
		t.Fatalf("second batch numbering wrong:\n%s", second)
	}
}
