package sentiment

import (
	sentimentmodel "github.com/manamitra/companion/backend/internal/model/sentiment"
)

// Decision tells the engine what to do with a freshly assembled excerpt.
type Decision int

const (
	// DecideInsufficientData means there is nothing to score.
	DecideInsufficientData Decision = iota
	// DecideScore means the external scorer must be called.
	DecideScore
	// DecideReuse means the latest record already covers this excerpt.
	DecideReuse
)

func (d Decision) String() string {
	switch d {
	case DecideInsufficientData:
		return "insufficient_data"
	case DecideScore:
		return "score"
	case DecideReuse:
		return "reuse"
	default:
		return "unknown"
	}
}

// Decide compares the excerpt against the latest record's source text.
func Decide(excerpt string, latest *sentimentmodel.Record) Decision {
	if excerpt == "" {
		return DecideInsufficientData
	}
	if latest == nil {
		return DecideScore
	}
	if latest.SourceText == excerpt {
		return DecideReuse
	}
	return DecideScore
}
