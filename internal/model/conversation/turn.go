package conversation

import "time"

// Intent classifies what a user message is about.
type Intent string

const (
	IntentNeutral    Intent = "neutral"
	IntentCrisis     Intent = "crisis"
	IntentAnxiety    Intent = "anxiety"
	IntentDepression Intent = "depression"
	IntentStress     Intent = "stress"
)

// Turn is one exchange between a user and the assistant. Turns are immutable once stored.
type Turn struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Intent    Intent    `json:"intent"`
	CreatedAt time.Time `json:"createdAt"`
}

// Complete reports whether both sides of the exchange are present.
func (t Turn) Complete() bool {
	return t.Message != "" && t.Response != ""
}
