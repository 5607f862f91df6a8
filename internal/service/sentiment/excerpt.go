package sentiment

import (
	"strings"

	"github.com/manamitra/companion/backend/internal/model/conversation"
)

// DefaultHistoryTurns is how many trailing turns feed one evaluation.
const DefaultHistoryTurns = 5

// AssembleExcerpt renders the last limit turns as the scorer input. The result is
// also the cache key, so the rendering must stay byte-stable for equal input.
// Turns missing either side are skipped entirely.
func AssembleExcerpt(turns []conversation.Turn, limit int) string {
	if limit < 1 {
		limit = DefaultHistoryTurns
	}
	start := len(turns) - limit
	if start < 0 {
		start = 0
	}

	blocks := make([]string, 0, len(turns)-start)
	for _, turn := range turns[start:] {
		if !turn.Complete() {
			continue
		}
		blocks = append(blocks, "You: "+turn.Message+"\nAssistant: "+turn.Response)
	}
	return strings.Join(blocks, "\n\n")
}
