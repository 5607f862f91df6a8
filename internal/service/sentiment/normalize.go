package sentiment

import (
	"encoding/json"
	"errors"
	"strings"

	sentimentmodel "github.com/manamitra/companion/backend/internal/model/sentiment"
)

// Result is the structured form of one scorer answer.
type Result struct {
	Level       string
	Score       sentimentmodel.Score
	Methodology string
}

const (
	unknownLevel = "unknown"
	zeroScore    = sentimentmodel.Score("0")
)

var errNoObject = errors.New("missing json object")

type scorerPayload struct {
	Level       *string               `json:"level"`
	Score       *sentimentmodel.Score `json:"score"`
	Methodology *string               `json:"methodology"`
}

// Normalize extracts the JSON object embedded in raw. When no object is found or
// it does not parse, the degraded result keeps the whole raw text as methodology.
func Normalize(raw string) (Result, bool) {
	payload, err := parseScorerOutput(raw)
	if err != nil {
		return Result{Level: unknownLevel, Score: zeroScore, Methodology: raw}, true
	}

	result := Result{Level: unknownLevel, Score: zeroScore}
	if payload.Level != nil {
		if level := strings.TrimSpace(*payload.Level); level != "" {
			result.Level = level
		}
	}
	if payload.Score != nil && *payload.Score != "" {
		result.Score = *payload.Score
	}
	if payload.Methodology != nil {
		result.Methodology = strings.TrimSpace(*payload.Methodology)
	}
	return result, false
}

// parseScorerOutput takes the span from the first '{' to the last '}' and decodes
// it strictly as JSON.
func parseScorerOutput(content string) (*scorerPayload, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, errNoObject
	}

	payload := &scorerPayload{}
	if err := json.Unmarshal([]byte(content[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}
