package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/manamitra/companion/backend/internal/analysis/intent"
	"github.com/manamitra/companion/backend/internal/metrics"
	"github.com/manamitra/companion/backend/internal/model/conversation"
	"github.com/manamitra/companion/backend/internal/model/resource"
	"github.com/manamitra/companion/backend/internal/store"
)

var (
	ErrUserRequired     = errors.New("user id is required")
	ErrMessageRequired  = errors.New("message is required")
	ErrReplyUnavailable = errors.New("assistant reply unavailable")
)

// CrisisNotice is prepended to replies for messages classified as crisis.
const CrisisNotice = "Crisis detected. Please contact a helpline or someone you trust right now."

// Responder produces the assistant's reply for a message.
type Responder interface {
	GenerateResponse(ctx context.Context, history []conversation.Turn, userMessage string, intent conversation.Intent) (string, error)
}

// Reply is the outcome of one user message.
type Reply struct {
	Turn      conversation.Turn   `json:"turn"`
	Response  string              `json:"response"`
	Intent    conversation.Intent `json:"intent"`
	Crisis    bool                `json:"crisis"`
	Helplines []resource.Helpline `json:"helplines,omitempty"`
}

// Service records conversation turns and asks the responder for replies.
type Service struct {
	turns     store.ConversationStore
	responder Responder
	metrics   *metrics.SentimentMetrics
	logger    *zap.Logger
}

// NewService wires the turn service. A nil responder stores user messages
// without a reply.
func NewService(turns store.ConversationStore, responder Responder, m *metrics.SentimentMetrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{turns: turns, responder: responder, metrics: m, logger: logger}
}

// Send classifies the message, generates a reply and appends the turn. When the
// responder fails the user message is still stored, without a response, and
// ErrReplyUnavailable is returned.
func (s *Service) Send(ctx context.Context, userID, message string) (Reply, error) {
	if userID == "" {
		return Reply{}, ErrUserRequired
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrMessageRequired
	}

	history, err := s.turns.ListTurns(ctx, userID)
	if err != nil {
		return Reply{}, fmt.Errorf("load conversation history: %w", err)
	}

	decision := intent.Analyze(message)

	var response string
	var replyErr error
	if s.responder == nil {
		replyErr = ErrReplyUnavailable
	} else if response, err = s.responder.GenerateResponse(ctx, history, message, decision.Intent); err != nil {
		s.logger.Warn("assistant reply failed", zap.String("user_id", userID), zap.Error(err))
		response = ""
		replyErr = fmt.Errorf("%w: %v", ErrReplyUnavailable, err)
	}

	turn, err := s.turns.AppendTurn(ctx, conversation.Turn{
		UserID:   userID,
		Message:  message,
		Response: response,
		Intent:   decision.Intent,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("persist turn: %w", err)
	}
	s.metrics.ObserveTurn(string(decision.Intent))

	reply := Reply{
		Turn:     turn,
		Response: response,
		Intent:   decision.Intent,
		Crisis:   decision.Crisis(),
	}
	if reply.Crisis {
		s.logger.Warn("crisis language detected", zap.String("user_id", userID), zap.Strings("signals", decision.Matches))
		reply.Helplines = resource.Helplines()
		if response != "" {
			reply.Response = CrisisNotice + "\n\n" + response
		} else {
			reply.Response = CrisisNotice
		}
	}
	return reply, replyErr
}

// History returns the user's turns in insertion order.
func (s *Service) History(ctx context.Context, userID string) ([]conversation.Turn, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	turns, err := s.turns.ListTurns(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load conversation history: %w", err)
	}
	return turns, nil
}
