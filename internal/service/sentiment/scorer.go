package sentiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/manamitra/companion/backend/internal/model/profile"
)

// Scorer is the external sentiment capability: prompt in, free text out.
type Scorer interface {
	Evaluate(ctx context.Context, p profile.Profile, excerpt string) (string, error)
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(ctx context.Context, p profile.Profile, excerpt string) (string, error)

// Evaluate implements Scorer.
func (f ScorerFunc) Evaluate(ctx context.Context, p profile.Profile, excerpt string) (string, error) {
	return f(ctx, p, excerpt)
}

// LLMScorer asks a chat model to rate the excerpt.
type LLMScorer struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewLLMScorer compiles the scoring chain on top of chatModel.
func NewLLMScorer(ctx context.Context, chatModel model.ChatModel) (*LLMScorer, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(scorerSystemPrompt),
		schema.UserMessage(scorerUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile sentiment scorer chain: %w", err)
	}
	return &LLMScorer{chain: runnable}, nil
}

// Evaluate implements Scorer.
func (s *LLMScorer) Evaluate(ctx context.Context, p profile.Profile, excerpt string) (string, error) {
	msg, err := s.chain.Invoke(ctx, map[string]any{
		"profile":      p.Summary(),
		"conversation": excerpt,
	})
	if err != nil {
		return "", fmt.Errorf("invoke sentiment scorer: %w", err)
	}
	if msg == nil {
		return "", errors.New("sentiment scorer returned no message")
	}
	return msg.Content, nil
}

// The templates use FString formatting, so they must not contain literal braces.
const scorerSystemPrompt = "You are a mental health AI assistant. Analyze the user's recent conversation with the companion together with their self-reported profile (PHQ-9 and GAD-7 scores and journal entries) to determine their current emotional state and risk level.\n" +
	"Give more weight to the recent conversation than to the profile.\n" +
	"If the conversation contains self-harm or crisis language (for example suicide, killing, taking poison, wanting to die), assign a very high level and a very high score.\n" +
	"Output requirements: return exactly one JSON object and nothing else, with exactly three keys: level (one of High, Medium, Low), score (a number from 0 to 100 where higher means more negative) and methodology (a short explanation of how you reached the score, referencing the conversation and the profile)."

const scorerUserPrompt = "User profile:\n{profile}\n\nRecent conversation:\n{conversation}\n\nReturn the JSON object now."
