package resource

// Helpline is an emergency contact shown when crisis language is detected.
type Helpline struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Severity    string `json:"severity"`
}

// Helplines returns the emergency contacts in display order.
func Helplines() []Helpline {
	return []Helpline{
		{Name: "Crisis Text Line", Number: "Text HOME to 741741", Description: "24/7 crisis support via text", Kind: "text", Severity: "crisis"},
		{Name: "National Suicide Prevention Lifeline", Number: "988", Description: "Free, confidential 24/7 support", Kind: "call", Severity: "crisis"},
		{Name: "SAMHSA National Helpline", Number: "1-800-662-4357", Description: "Mental health and substance abuse", Kind: "call", Severity: "support"},
		{Name: "Emergency Services", Number: "911", Description: "Immediate emergency assistance", Kind: "call", Severity: "emergency"},
	}
}
