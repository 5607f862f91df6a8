package profile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownInstrument = errors.New("unknown screening instrument")
	ErrInvalidAnswers    = errors.New("invalid screening answers")
)

// Option is one of the answer choices shared by PHQ-9 and GAD-7.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Options lists the frequency answers, scored 0 to 3.
var Options = []Option{
	{Value: 0, Label: "Not at all"},
	{Value: 1, Label: "Several days"},
	{Value: 2, Label: "More than half the days"},
	{Value: 3, Label: "Nearly every day"},
}

type band struct {
	max         int
	level       string
	description string
}

// Instrument is a self-report questionnaire with its scoring bands.
type Instrument struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Questions []string `json:"questions"`
	Options   []Option `json:"options"`

	bands       []band
	alertLevels map[string]bool
}

// ScreeningResult is the scored outcome of one questionnaire submission.
type ScreeningResult struct {
	Instrument  string `json:"instrument"`
	Total       int    `json:"total"`
	Max         int    `json:"max"`
	Level       string `json:"level"`
	Description string `json:"description"`
	Alert       bool   `json:"alert"`
}

var phq9 = Instrument{
	ID:   "phq9",
	Name: "PHQ-9",
	Questions: []string{
		"Little interest or pleasure in doing things",
		"Feeling down, depressed, or hopeless",
		"Trouble falling or staying asleep, or sleeping too much",
		"Feeling tired or having little energy",
		"Poor appetite or overeating",
		"Feeling bad about yourself or that you are a failure or have let yourself or your family down",
		"Trouble concentrating on things, such as reading the newspaper or watching television",
		"Moving or speaking so slowly that other people could have noticed. Or the opposite - being so fidgety or restless that you have been moving around a lot more than usual",
		"Thoughts that you would be better off dead, or of hurting yourself",
	},
	Options: Options,
	bands: []band{
		{max: 4, level: "Minimal", description: "Minimal depression symptoms"},
		{max: 9, level: "Mild", description: "Mild depression symptoms"},
		{max: 14, level: "Moderate", description: "Moderate depression symptoms"},
		{max: 19, level: "Moderately Severe", description: "Moderately severe depression symptoms"},
		{max: 27, level: "Severe", description: "Severe depression symptoms"},
	},
	alertLevels: map[string]bool{"Moderately Severe": true, "Severe": true},
}

var gad7 = Instrument{
	ID:   "gad7",
	Name: "GAD-7",
	Questions: []string{
		"Feeling nervous, anxious, or on edge",
		"Not being able to stop or control worrying",
		"Worrying too much about different things",
		"Trouble relaxing",
		"Being so restless that it's hard to sit still",
		"Becoming easily annoyed or irritable",
		"Feeling afraid as if something awful might happen",
	},
	Options: Options,
	bands: []band{
		{max: 4, level: "Minimal", description: "Minimal anxiety symptoms"},
		{max: 9, level: "Mild", description: "Mild anxiety symptoms"},
		{max: 14, level: "Moderate", description: "Moderate anxiety symptoms"},
		{max: 21, level: "Severe", description: "Severe anxiety symptoms"},
	},
	alertLevels: map[string]bool{"Severe": true},
}

// LookupInstrument resolves "phq9", "PHQ-9", "gad7" and similar spellings.
func LookupInstrument(id string) (Instrument, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(id), "-", ""))
	switch normalized {
	case "phq9":
		return phq9, nil
	case "gad7":
		return gad7, nil
	default:
		return Instrument{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, id)
	}
}

// MaxScore is the highest total the instrument can produce.
func (i Instrument) MaxScore() int {
	return len(i.Questions) * Options[len(Options)-1].Value
}

// Score totals one answer per question and maps the total onto a severity band.
func (i Instrument) Score(answers []int) (ScreeningResult, error) {
	if len(answers) != len(i.Questions) {
		return ScreeningResult{}, fmt.Errorf("%w: %s expects %d answers, got %d", ErrInvalidAnswers, i.Name, len(i.Questions), len(answers))
	}

	total := 0
	for idx, answer := range answers {
		if answer < 0 || answer > 3 {
			return ScreeningResult{}, fmt.Errorf("%w: answer %d out of range: %d", ErrInvalidAnswers, idx+1, answer)
		}
		total += answer
	}

	result := ScreeningResult{Instrument: i.ID, Total: total, Max: i.MaxScore()}
	for _, b := range i.bands {
		if total <= b.max {
			result.Level = b.level
			result.Description = b.description
			break
		}
	}
	result.Alert = i.alertLevels[result.Level]
	return result, nil
}
