package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Load reads and validates a single session transcript file.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", filepath.Base(path), err)
	}
	if err := validateSession(&session); err != nil {
		return nil, fmt.Errorf("transcript %s: %w", filepath.Base(path), err)
	}
	return &session, nil
}

// LoadDir loads every *.json transcript under dir into a Set. Files are
// loaded in name order so repeated runs see sessions in the same order.
func LoadDir(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read transcript dir: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no transcript files in %s", dir)
	}

	sessions := make([]*Session, 0, len(paths))
	for _, path := range paths {
		session, err := Load(path)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return NewSet(sessions)
}

// LoadPath loads either a single transcript file or a directory of them.
func LoadPath(path string) (*Set, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat transcript path: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	session, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewSet([]*Session{session})
}

func validateSession(session *Session) error {
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is empty")
	}
	if len(session.Utterances) == 0 {
		return fmt.Errorf("session %s has no utterances", session.ID)
	}

	speakers := make(map[string]struct{}, len(session.Speakers))
	for _, sp := range session.Speakers {
		if strings.TrimSpace(sp.ID) == "" {
			return fmt.Errorf("session %s has a speaker with an empty id", session.ID)
		}
		if _, dup := speakers[sp.ID]; dup {
			return fmt.Errorf("session %s has duplicate speaker %q", session.ID, sp.ID)
		}
		speakers[sp.ID] = struct{}{}
	}

	var prevEnd Timecode
	for i, u := range session.Utterances {
		if u.Start < 0 || u.End < u.Start {
			return fmt.Errorf("session %s utterance %d has invalid timecodes [%s, %s]", session.ID, i, u.Start, u.End)
		}
		if u.Start < prevEnd {
			return fmt.Errorf("session %s utterance %d overlaps the previous utterance", session.ID, i)
		}
		if _, ok := speakers[u.Speaker]; !ok {
			return fmt.Errorf("session %s utterance %d references unknown speaker %q", session.ID, i, u.Speaker)
		}
		if strings.TrimSpace(u.Text) == "" {
			return fmt.Errorf("session %s utterance %d has empty text", session.ID, i)
		}
		prevEnd = u.End
	}
	return nil
}
