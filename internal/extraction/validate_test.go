package extraction

import (
	"errors"
	"testing"

	"verbatim/internal/taxonomy"
)

func validCandidate() Candidate {
	return Candidate{
		SessionID: "s1",
		SpeakerID: "p1",
		Start:     4500,
		End:       9000,
		Text:      "Oh, that's not what I expected.",
		Sentiment: taxonomy.Surprise,
		Intensity: 2,
		Pass:      1,
	}
}

func TestValidateCandidateAccepts(t *testing.T) {
	set := testSet(t)
	got, rejection := ValidateCandidate(testRegistry(), set, validCandidate())
	if rejection != nil {
		t.Fatalf("unexpected rejection: %+v", rejection)
	}
	if got.Sentiment != taxonomy.Surprise || got.Intensity != 2 {
		t.Fatalf("candidate mutated: %+v", got)
	}
}

func TestValidateCandidateUnknownSession(t *testing.T) {
	set := testSet(t)
	c := validCandidate()
	c.SessionID = "ghost"
	_, rejection := ValidateCandidate(testRegistry(), set, c)
	if rejection == nil || rejection.Reason != ReasonUnattributedSpan {
		t.Fatalf("rejection = %+v, want unattributed span", rejection)
	}
	var spanErr *UnattributedSpanError
	if !errors.As(rejection.Err, &spanErr) {
		t.Fatalf("error type = %T", rejection.Err)
	}
}

func TestValidateCandidateSpanAcrossUtterances(t *testing.T) {
	set := testSet(t)
	c := validCandidate()
	// Starts in utterance 2, ends in utterance 3.
	c.Start = 4500
	c.End = 11000
	_, rejection := ValidateCandidate(testRegistry(), set, c)
	if rejection == nil || rejection.Reason != ReasonUnattributedSpan {
		t.Fatalf("rejection = %+v, want unattributed span", rejection)
	}
}

func TestValidateCandidateWrongSpeaker(t *testing.T) {
	set := testSet(t)
	c := validCandidate()
	c.SpeakerID = "mod"
	_, rejection := ValidateCandidate(testRegistry(), set, c)
	if rejection == nil || rejection.Reason != ReasonUnattributedSpan {
		t.Fatalf("rejection = %+v, want unattributed span", rejection)
	}
}

func TestValidateCandidateUnknownSentiment(t *testing.T) {
	set := testSet(t)
	c := validCandidate()
	c.Sentiment = taxonomy.Sentiment("annoyed")
	_, rejection := ValidateCandidate(testRegistry(), set, c)
	if rejection == nil || rejection.Reason != ReasonUnknownSentiment {
		t.Fatalf("rejection = %+v, want unknown sentiment", rejection)
	}
}

func TestValidateCandidateClampsIntensity(t *testing.T) {
	set := testSet(t)
	c := validCandidate()
	c.Intensity = 9
	got, rejection := ValidateCandidate(testRegistry(), set, c)
	if rejection != nil {
		t.Fatalf("out-of-range intensity rejected: %+v", rejection)
	}
	if got.Intensity != taxonomy.MaxIntensity {
		t.Fatalf("intensity = %d, want %d", got.Intensity, taxonomy.MaxIntensity)
	}
}

func TestValidateCandidateEmptyText(t *testing.T) {
	set := testSet(t)
	c := validCandidate()
	c.Text = "   \t"
	_, rejection := ValidateCandidate(testRegistry(), set, c)
	if rejection == nil || rejection.Reason != ReasonEmptyText {
		t.Fatalf("rejection = %+v, want empty text", rejection)
	}
}

func TestValidateCandidateTextLongerThanUtterance(t *testing.T) {
	set := testSet(t)
	c := validCandidate()
	c.Text = "Oh, that's not what I expected at all, truly, and then some extra invented words."
	_, rejection := ValidateCandidate(testRegistry(), set, c)
	if rejection == nil || rejection.Reason != ReasonTextTooLong {
		t.Fatalf("rejection = %+v, want text too long", rejection)
	}
}

func TestValidateCandidateAbsentSentimentAccepted(t *testing.T) {
	set := testSet(t)
	c := validCandidate()
	c.Sentiment = taxonomy.None
	if _, rejection := ValidateCandidate(testRegistry(), set, c); rejection != nil {
		t.Fatalf("absent sentiment rejected: %+v", rejection)
	}
}
