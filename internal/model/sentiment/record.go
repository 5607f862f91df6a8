package sentiment

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Severity is the coarse risk category derived from a record's level.
type Severity string

const (
	SeverityLow     Severity = "low"
	SeverityMedium  Severity = "medium"
	SeverityHigh    Severity = "high"
	SeverityUnknown Severity = "unknown"
)

// ParseSeverity maps a free-form level string onto a Severity.
func ParseSeverity(level string) Severity {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low":
		return SeverityLow
	case "medium":
		return SeverityMedium
	case "high":
		return SeverityHigh
	default:
		return SeverityUnknown
	}
}

// Score keeps the scorer's value exactly as it was returned. Numeric values are
// held in their textual form so "92" and "N/A" survive a round trip unchanged.
type Score string

// Numeric returns the score as a finite number when it can be coerced.
func (s Score) Numeric() (float64, bool) {
	val, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	return val, true
}

// MarshalJSON emits numbers as JSON numbers and everything else as a string.
func (s Score) MarshalJSON() ([]byte, error) {
	if val, ok := s.Numeric(); ok {
		return json.Marshal(val)
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON accepts a JSON number, string, or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = Score(text)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = Score(num.String())
	return nil
}

// Record is a persisted sentiment evaluation. SourceText is the exact excerpt
// that was scored and doubles as the cache key for the next evaluation.
type Record struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SourceText  string    `json:"sourceText"`
	Score       Score     `json:"score"`
	Level       string    `json:"level"`
	Methodology string    `json:"methodology"`
	Degraded    bool      `json:"degraded,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Severity derives the normalized severity from the stored level.
func (r Record) Severity() Severity {
	return ParseSeverity(r.Level)
}
