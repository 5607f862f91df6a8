package resource

import "strings"

// Strategy is a coping exercise the dashboard can recommend.
type Strategy struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Condition   string `json:"condition"`
	Difficulty  string `json:"difficulty"`
	Time        string `json:"time"`
	AudioURL    string `json:"audio,omitempty"`
	VideoURL    string `json:"video,omitempty"`
}

// Filter narrows a catalogue listing. Empty fields match everything.
type Filter struct {
	Condition  string
	Difficulty string
	Time       string
}

func (f Filter) matches(s Strategy) bool {
	return matchField(f.Condition, s.Condition) &&
		matchField(f.Difficulty, s.Difficulty) &&
		matchField(f.Time, s.Time)
}

func matchField(want, got string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.EqualFold(want, got)
}

// Store exposes strategy retrieval for HTTP handlers.
type Store interface {
	List(filter Filter) []Strategy
	FindByID(id string) (Strategy, bool)
}

// MemoryStore implements Store over a fixed slice.
type MemoryStore struct {
	items []Strategy
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied strategies.
func NewMemoryStore(items []Strategy) *MemoryStore {
	return &MemoryStore{items: append([]Strategy(nil), items...)}
}

// List returns strategies matching filter in catalogue order.
func (s *MemoryStore) List(filter Filter) []Strategy {
	out := make([]Strategy, 0, len(s.items))
	for _, item := range s.items {
		if filter.matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// FindByID looks up a strategy by identifier.
func (s *MemoryStore) FindByID(id string) (Strategy, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Strategy{}, false
}

// Seed provides the default coping catalogue.
func Seed() []Strategy {
	return []Strategy{
		{
			ID:          "box-breathing",
			Title:       "Box Breathing",
			Description: "Breathe in for four counts, hold for four, out for four, hold for four. Repeat for a few minutes to slow your heart rate.",
			Condition:   "Anxiety",
			Difficulty:  "Beginner",
			Time:        "5 min",
		},
		{
			ID:          "grounding-54321",
			Title:       "5-4-3-2-1 Grounding",
			Description: "Name five things you can see, four you can touch, three you can hear, two you can smell and one you can taste.",
			Condition:   "Anxiety",
			Difficulty:  "Beginner",
			Time:        "5 min",
		},
		{
			ID:          "worry-window",
			Title:       "Scheduled Worry Time",
			Description: "Write worries down as they come and save them for a fixed fifteen-minute window later in the day.",
			Condition:   "Anxiety",
			Difficulty:  "Intermediate",
			Time:        "15 min",
		},
		{
			ID:          "behavioural-activation",
			Title:       "Small Pleasant Activity",
			Description: "Pick one small activity you used to enjoy and do it for five minutes, even if motivation is low.",
			Condition:   "Depression",
			Difficulty:  "Beginner",
			Time:        "5 min",
		},
		{
			ID:          "thought-record",
			Title:       "Thought Record",
			Description: "Write down a difficult thought, the evidence for and against it, and a more balanced alternative.",
			Condition:   "Depression",
			Difficulty:  "Intermediate",
			Time:        "15 min",
		},
		{
			ID:          "gratitude-letter",
			Title:       "Gratitude Letter",
			Description: "Write a letter to someone who helped you. You do not have to send it.",
			Condition:   "Depression",
			Difficulty:  "Advanced",
			Time:        "30 min",
		},
		{
			ID:          "progressive-relaxation",
			Title:       "Progressive Muscle Relaxation",
			Description: "Tense and release each muscle group from your feet to your face, noticing the difference.",
			Condition:   "Stress",
			Difficulty:  "Beginner",
			Time:        "15 min",
		},
		{
			ID:          "priority-matrix",
			Title:       "Urgent / Important Sort",
			Description: "Sort your tasks into urgent and important quadrants and choose one task to drop or delegate.",
			Condition:   "Stress",
			Difficulty:  "Intermediate",
			Time:        "15 min",
		},
		{
			ID:          "body-scan",
			Title:       "Body Scan Meditation",
			Description: "Lie down and move your attention slowly through the body, releasing tension as you go.",
			Condition:   "Sleep Issues",
			Difficulty:  "Beginner",
			Time:        "15 min",
		},
		{
			ID:          "sleep-diary",
			Title:       "Sleep Diary",
			Description: "Track bedtime, wake time, caffeine and screen use for a week to spot patterns.",
			Condition:   "Sleep Issues",
			Difficulty:  "Advanced",
			Time:        "30 min",
		},
	}
}
