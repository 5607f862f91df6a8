package sentiment

import (
	"strings"

	sentimentmodel "github.com/manamitra/companion/backend/internal/model/sentiment"
)

// Treatment is how the dashboard should style a value.
type Treatment string

const (
	TreatmentAlert     Treatment = "alert"
	TreatmentCaution   Treatment = "caution"
	TreatmentInfo      Treatment = "info"
	TreatmentFavorable Treatment = "favorable"
	TreatmentNeutral   Treatment = "neutral"
)

// Display pairs a treatment with the text to show.
type Display struct {
	Treatment Treatment `json:"treatment"`
	Label     string    `json:"label"`
}

// Presentation is the independent level and score treatments for one record.
type Presentation struct {
	Level Display `json:"level"`
	Score Display `json:"score"`
}

// Present maps a record onto its display treatments.
func Present(record sentimentmodel.Record) Presentation {
	return Presentation{
		Level: LevelDisplay(record.Level),
		Score: ScoreDisplay(record.Score),
	}
}

// LevelDisplay maps the stored level. Unrecognised levels show their literal text.
func LevelDisplay(level string) Display {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high":
		return Display{Treatment: TreatmentAlert, Label: "High"}
	case "medium":
		return Display{Treatment: TreatmentCaution, Label: "Medium"}
	case "low":
		return Display{Treatment: TreatmentInfo, Label: "Low"}
	default:
		return Display{Treatment: TreatmentNeutral, Label: level}
	}
}

// ScoreDisplay maps the score by threshold: below 40 favorable, 40 to 80
// inclusive caution, above 80 alert. Unparseable scores show the raw value.
func ScoreDisplay(score sentimentmodel.Score) Display {
	val, ok := score.Numeric()
	if !ok {
		return Display{Treatment: TreatmentNeutral, Label: string(score)}
	}
	switch {
	case val < 40:
		return Display{Treatment: TreatmentFavorable, Label: string(score)}
	case val <= 80:
		return Display{Treatment: TreatmentCaution, Label: string(score)}
	default:
		return Display{Treatment: TreatmentAlert, Label: string(score)}
	}
}
