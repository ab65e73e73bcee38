package transcript

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Timecode is an offset from the start of a session recording, in
// milliseconds.
type Timecode int64

// TimecodeFromDuration converts a duration into a Timecode.
func TimecodeFromDuration(d time.Duration) Timecode {
	return Timecode(d.Milliseconds())
}

// Duration converts the timecode back into a time.Duration.
func (t Timecode) Duration() time.Duration {
	return time.Duration(t) * time.Millisecond
}

// String renders the timecode as mm:ss.mmm for logs and tables.
func (t Timecode) String() string {
	if t < 0 {
		return "-" + (-t).String()
	}
	total := int64(t)
	minutes := total / 60000
	seconds := (total % 60000) / 1000
	millis := total % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// SpeakerRole distinguishes participants from facilitators in aggregates.
type SpeakerRole string

const (
	RoleParticipant SpeakerRole = "participant"
	RoleModerator   SpeakerRole = "moderator"
	RoleObserver    SpeakerRole = "observer"
)

// Speaker is one person appearing in a session transcript.
type Speaker struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role SpeakerRole `json:"role"`
}

// DisplayName returns the speaker's name, falling back to a title-cased
// rendering of the identifier when the transcription stage supplied none.
func (s Speaker) DisplayName() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(s.ID)
	return cases.Title(language.Und).String(strings.TrimSpace(cleaned))
}

// Utterance is one timecoded, speaker-attributed span of transcript text.
// Immutable once produced by the transcription stage.
type Utterance struct {
	Speaker string   `json:"speaker"`
	Start   Timecode `json:"start_ms"`
	End     Timecode `json:"end_ms"`
	Text    string   `json:"text"`
}

// Contains reports whether the [start, end] range lies fully inside the
// utterance's own time range.
func (u Utterance) Contains(start, end Timecode) bool {
	return start >= u.Start && end <= u.End && start <= end
}

// Session is one recorded usability-test interaction decomposed into
// timecoded utterances.
type Session struct {
	ID         string      `json:"session_id"`
	Title      string      `json:"title"`
	RecordedAt time.Time   `json:"recorded_at"`
	Speakers   []Speaker   `json:"speakers"`
	Utterances []Utterance `json:"utterances"`
}

// Speaker looks up a participant by identifier.
func (s *Session) Speaker(id string) (Speaker, bool) {
	for _, sp := range s.Speakers {
		if sp.ID == id {
			return sp, true
		}
	}
	return Speaker{}, false
}

// UtteranceAt returns the utterance, if any, whose time range fully contains
// [start, end] and whose speaker matches. Utterance timecodes are
// non-overlapping, so at most one can match.
func (s *Session) UtteranceAt(speakerID string, start, end Timecode) (Utterance, bool) {
	for _, u := range s.Utterances {
		if u.Speaker == speakerID && u.Contains(start, end) {
			return u, true
		}
	}
	return Utterance{}, false
}

// Set indexes sessions by identifier for validator and indexer lookups.
type Set struct {
	order    []string
	sessions map[string]*Session
}

// NewSet builds a Set over the supplied sessions. Duplicate session
// identifiers are rejected.
func NewSet(sessions []*Session) (*Set, error) {
	set := &Set{sessions: make(map[string]*Session, len(sessions))}
	for _, session := range sessions {
		if session == nil {
			continue
		}
		if _, exists := set.sessions[session.ID]; exists {
			return nil, fmt.Errorf("duplicate session id %q", session.ID)
		}
		set.order = append(set.order, session.ID)
		set.sessions[session.ID] = session
	}
	return set, nil
}

// Session looks up a session by identifier.
func (s *Set) Session(id string) (*Session, bool) {
	session, ok := s.sessions[id]
	return session, ok
}

// Sessions returns the sessions in load order.
func (s *Set) Sessions() []*Session {
	out := make([]*Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sessions[id])
	}
	return out
}

// Len returns the number of sessions in the set.
func (s *Set) Len() int {
	return len(s.order)
}
