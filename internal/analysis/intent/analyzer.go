package intent

import (
	"strings"

	"github.com/manamitra/companion/backend/internal/model/conversation"
)

// Decision is the classifier's verdict for one piece of text.
type Decision struct {
	Intent  conversation.Intent `json:"intent"`
	Score   int                 `json:"score"`
	Matches []string            `json:"matches,omitempty"`
}

// Crisis reports whether the decision should trigger the crisis notice.
func (d Decision) Crisis() bool {
	return d.Intent == conversation.IntentCrisis
}

// crisisKeywords always win over the other buckets, regardless of score.
var crisisKeywords = []string{
	"suicide", "suicidal", "kill myself", "killing myself", "end my life", "end it all",
	"want to die", "better off dead", "self harm", "self-harm", "hurt myself", "cut myself",
	"cutting myself", "overdose", "poison", "no reason to live", "can't go on", "cannot go on",
	"take my own life", "hang myself",
}

var keywordBuckets = map[conversation.Intent][]string{
	conversation.IntentAnxiety: {
		"anxious", "anxiety", "panic", "nervous", "worried", "worry", "on edge", "restless",
		"heart racing", "can't breathe", "scared", "afraid", "overthinking",
	},
	conversation.IntentDepression: {
		"depressed", "depression", "hopeless", "empty", "worthless", "numb", "sad", "crying",
		"lonely", "alone", "no energy", "tired of everything", "don't enjoy", "useless",
	},
	conversation.IntentStress: {
		"stressed", "stress", "overwhelmed", "pressure", "deadline", "exam", "exams", "burnout",
		"burned out", "too much work", "can't cope", "assignments", "workload",
	},
}

// bucketOrder breaks score ties deterministically.
var bucketOrder = []conversation.Intent{
	conversation.IntentDepression,
	conversation.IntentAnxiety,
	conversation.IntentStress,
}

// Analyze classifies a user message by keyword buckets.
func Analyze(text string) Decision {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Decision{Intent: conversation.IntentNeutral}
	}

	if hits := matchAll(normalized, crisisKeywords); len(hits) > 0 {
		return Decision{Intent: conversation.IntentCrisis, Score: 10 * len(hits), Matches: hits}
	}

	best := Decision{Intent: conversation.IntentNeutral}
	for _, label := range bucketOrder {
		hits := matchAll(normalized, keywordBuckets[label])
		score := 3 * len(hits)
		if score > best.Score {
			best = Decision{Intent: label, Score: score, Matches: hits}
		}
	}
	return best
}

// DetectCrisis scans free text for crisis language only.
func DetectCrisis(text string) []string {
	return matchAll(strings.ToLower(text), crisisKeywords)
}

func matchAll(normalized string, keywords []string) []string {
	var hits []string
	for _, word := range keywords {
		if strings.Contains(normalized, word) {
			hits = append(hits, word)
		}
	}
	return hits
}
