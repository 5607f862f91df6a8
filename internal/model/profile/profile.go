package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoProfile is returned when the profile document holds no entries.
var ErrNoProfile = errors.New("profile document is empty")

// JournalEntry is a free-text note the user attached to their profile.
type JournalEntry struct {
	Date string `json:"date,omitempty"`
	Text string `json:"text"`
}

// Profile carries self-reported screening data. It is maintained outside this
// service and only ever read.
type Profile struct {
	Name         string         `json:"name,omitempty"`
	AgeGroup     string         `json:"ageGroup,omitempty"`
	PHQ9Score    *int           `json:"phq9Score,omitempty"`
	PHQ9Severity string         `json:"phq9Severity,omitempty"`
	GAD7Score    *int           `json:"gad7Score,omitempty"`
	GAD7Severity string         `json:"gad7Severity,omitempty"`
	Journal      []JournalEntry `json:"journal,omitempty"`
	Notes        string         `json:"notes,omitempty"`
}

// Summary renders the profile as compact JSON for prompt inclusion.
func (p Profile) Summary() string {
	data, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Source loads the current user profile.
type Source interface {
	Load(ctx context.Context) (Profile, error)
}

// FileSource reads a JSON document holding an array of profiles and returns the
// first one. A single top-level object is accepted too.
type FileSource struct {
	path string
}

// NewFileSource returns a Source backed by the JSON file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and decodes the profile file on every call so external edits are
// picked up without a restart.
func (s *FileSource) Load(_ context.Context) (Profile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile %s: %w", s.path, err)
	}
	return decode(data)
}

func decode(data []byte) (Profile, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var single Profile
		if err := json.Unmarshal([]byte(trimmed), &single); err != nil {
			return Profile{}, fmt.Errorf("decode profile: %w", err)
		}
		return single, nil
	}

	var items []Profile
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	if len(items) == 0 {
		return Profile{}, ErrNoProfile
	}
	return items[0], nil
}

// StaticSource always returns the same profile.
type StaticSource struct {
	Profile Profile
}

// Load implements Source.
func (s StaticSource) Load(context.Context) (Profile, error) {
	return s.Profile, nil
}
