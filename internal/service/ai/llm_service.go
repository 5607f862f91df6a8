package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/manamitra/companion/backend/internal/model/conversation"
)

// historyLimit caps how many previous turns are replayed to the model.
const historyLimit = 10

// Service generates companion replies with a chat model.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
	logger    *zap.Logger
}

// NewService compiles the reply chain on top of chatModel.
func NewService(ctx context.Context, chatModel model.ChatModel, logger *zap.Logger) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		chain:     runnable,
		logger:    logger,
	}, nil
}

// GenerateResponse answers userMessage given the user's earlier turns and the
// locally classified intent.
func (s *Service) GenerateResponse(ctx context.Context, history []conversation.Turn, userMessage string, intent conversation.Intent) (string, error) {
	input := map[string]any{
		"system":  buildSystemPrompt(intent),
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil {
		return "", errors.New("chat model returned no message")
	}

	s.logger.Debug("generated reply", zap.String("intent", string(intent)), zap.Int("length", len(response.Content)))
	return strings.TrimSpace(response.Content), nil
}

// GetChatModel returns the underlying chat model.
func (s *Service) GetChatModel() model.ChatModel {
	return s.chatModel
}

func buildSystemPrompt(intent conversation.Intent) string {
	guidance := describeIntent(intent)
	if guidance == "" {
		return companionPrompt
	}
	return companionPrompt + "\n\nCurrent read of the user: " + guidance
}

func buildHistoryMessages(turns []conversation.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	start := 0
	if len(turns) > historyLimit {
		start = len(turns) - historyLimit
	}

	history := make([]*schema.Message, 0, 2*(len(turns)-start))
	for _, turn := range turns[start:] {
		if turn.Message != "" {
			history = append(history, schema.UserMessage(turn.Message))
		}
		if turn.Response != "" {
			history = append(history, schema.AssistantMessage(turn.Response, nil))
		}
	}
	return history
}
