package sentiment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manamitra/companion/backend/internal/model/conversation"
)

func turn(message, response string) conversation.Turn {
	return conversation.Turn{UserID: "u1", Message: message, Response: response}
}

func TestAssembleExcerptSkipsIncompleteTurns(t *testing.T) {
	turns := []conversation.Turn{turn("a", "1"), turn("b", ""), turn("c", "3")}

	got := AssembleExcerpt(turns, 5)

	assert.Equal(t, "You: a\nAssistant: 1\n\nYou: c\nAssistant: 3", got)
	assert.NotContains(t, got, "You: b")
}

func TestAssembleExcerptKeepsLastTurnsOnly(t *testing.T) {
	var turns []conversation.Turn
	for i := 1; i <= 7; i++ {
		turns = append(turns, turn(fmt.Sprintf("m%d", i), fmt.Sprintf("r%d", i)))
	}

	got := AssembleExcerpt(turns, 5)

	assert.NotContains(t, got, "m2")
	assert.Contains(t, got, "You: m3\nAssistant: r3")
	assert.Contains(t, got, "You: m7\nAssistant: r7")
}

func TestAssembleExcerptWindowCountsSkippedTurns(t *testing.T) {
	turns := []conversation.Turn{
		turn("old", "kept?"),
		turn("x", ""), turn("", "y"), turn("x", ""), turn("", "y"), turn("", ""),
	}

	assert.Equal(t, "", AssembleExcerpt(turns, 5))
}

func TestAssembleExcerptEmpty(t *testing.T) {
	assert.Equal(t, "", AssembleExcerpt(nil, 5))
	assert.Equal(t, "You: a\nAssistant: 1", AssembleExcerpt([]conversation.Turn{turn("a", "1")}, 0))
}
