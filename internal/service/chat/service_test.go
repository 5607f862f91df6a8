package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/manamitra/companion/backend/internal/model/conversation"
	chat "github.com/manamitra/companion/backend/internal/service/chat"
	"github.com/manamitra/companion/backend/internal/store/memory"
)

type fakeResponder struct {
	reply       string
	err         error
	gotHistory  int
	gotIntent   conversation.Intent
	gotMessages []string
}

func (f *fakeResponder) GenerateResponse(_ context.Context, history []conversation.Turn, msg string, in conversation.Intent) (string, error) {
	f.gotHistory = len(history)
	f.gotIntent = in
	f.gotMessages = append(f.gotMessages, msg)
	return f.reply, f.err
}

func TestServiceSendStoresTurn(t *testing.T) {
	st := memory.New()
	responder := &fakeResponder{reply: "That sounds stressful."}
	svc := chat.NewService(st, responder, nil, nil)
	ctx := context.Background()

	reply, err := svc.Send(ctx, "u1", "  my exams are so much pressure  ")
	if err != nil {
		t.Fatalf("Send err: %v", err)
	}
	if reply.Intent != conversation.IntentStress {
		t.Fatalf("unexpected intent: %s", reply.Intent)
	}
	if reply.Crisis || len(reply.Helplines) != 0 {
		t.Fatal("did not expect crisis handling")
	}
	if reply.Turn.Message != "my exams are so much pressure" {
		t.Fatalf("message not trimmed: %q", reply.Turn.Message)
	}

	if _, err := svc.Send(ctx, "u1", "thanks"); err != nil {
		t.Fatalf("second Send err: %v", err)
	}
	if responder.gotHistory != 1 {
		t.Fatalf("expected one previous turn, got %d", responder.gotHistory)
	}

	turns, err := svc.History(ctx, "u1")
	if err != nil {
		t.Fatalf("History err: %v", err)
	}
	if len(turns) != 2 || !turns[0].Complete() {
		t.Fatalf("unexpected history: %+v", turns)
	}
}

func TestServiceSendCrisisAddsHelplines(t *testing.T) {
	svc := chat.NewService(memory.New(), &fakeResponder{reply: "I'm really glad you told me."}, nil, nil)

	reply, err := svc.Send(context.Background(), "u1", "I want to die")
	if err != nil {
		t.Fatalf("Send err: %v", err)
	}
	if !reply.Crisis || reply.Intent != conversation.IntentCrisis {
		t.Fatalf("expected crisis, got %+v", reply)
	}
	if len(reply.Helplines) == 0 {
		t.Fatal("expected helplines")
	}
	if !strings.HasPrefix(reply.Response, chat.CrisisNotice) {
		t.Fatalf("expected crisis notice, got %q", reply.Response)
	}
	if reply.Turn.Response != "I'm really glad you told me." {
		t.Fatalf("stored response should not carry the notice: %q", reply.Turn.Response)
	}
}

func TestServiceSendResponderFailureKeepsMessage(t *testing.T) {
	st := memory.New()
	svc := chat.NewService(st, &fakeResponder{err: errors.New("timeout")}, nil, nil)
	ctx := context.Background()

	_, err := svc.Send(ctx, "u1", "hello")
	if !errors.Is(err, chat.ErrReplyUnavailable) {
		t.Fatalf("expected ErrReplyUnavailable, got %v", err)
	}

	turns, _ := st.ListTurns(ctx, "u1")
	if len(turns) != 1 || turns[0].Complete() {
		t.Fatalf("expected one incomplete turn, got %+v", turns)
	}
}

func TestServiceSendValidation(t *testing.T) {
	svc := chat.NewService(memory.New(), &fakeResponder{}, nil, nil)
	ctx := context.Background()

	if _, err := svc.Send(ctx, "", "hi"); !errors.Is(err, chat.ErrUserRequired) {
		t.Fatalf("expected ErrUserRequired, got %v", err)
	}
	if _, err := svc.Send(ctx, "u1", "   "); !errors.Is(err, chat.ErrMessageRequired) {
		t.Fatalf("expected ErrMessageRequired, got %v", err)
	}
}
