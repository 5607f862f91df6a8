package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/manamitra/companion/backend/internal/model/conversation"
	chatservice "github.com/manamitra/companion/backend/internal/service/chat"
	"github.com/manamitra/companion/backend/internal/store/memory"
)

type stubResponder struct {
	reply string
	err   error
}

func (s stubResponder) GenerateResponse(context.Context, []conversation.Turn, string, conversation.Intent) (string, error) {
	return s.reply, s.err
}

func setupRouter(responder chatservice.Responder) *chi.Mux {
	svc := chatservice.NewService(memory.New(), responder, nil, nil)
	r := chi.NewRouter()
	New(svc, nil).RegisterRoutes(r)
	return r
}

func postMessage(r http.Handler, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/users/"+userID+"/messages", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateUserReturnsID(t *testing.T) {
	r := setupRouter(stubResponder{})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/users", nil))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["userId"] == "" {
		t.Fatal("expected a user id")
	}
}

func TestSendMessageThenList(t *testing.T) {
	r := setupRouter(stubResponder{reply: "I'm listening."})

	resp := postMessage(r, "u1", `{"message":"I feel anxious"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var reply struct {
		Response string `json:"response"`
		Intent   string `json:"intent"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.Response != "I'm listening." || reply.Intent != "anxiety" {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	list := httptest.NewRecorder()
	r.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/users/u1/messages", nil))
	var history struct {
		Turns []conversation.Turn `json:"turns"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(history.Turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(history.Turns))
	}
}

func TestSendMessageValidation(t *testing.T) {
	r := setupRouter(stubResponder{reply: "ok"})

	if resp := postMessage(r, "u1", `{"message":""}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty message, got %d", resp.Code)
	}
	if resp := postMessage(r, "u1", `not json`); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", resp.Code)
	}
}

func TestSendMessageReplyFailure(t *testing.T) {
	r := setupRouter(stubResponder{err: errors.New("model down")})

	resp := postMessage(r, "u1", `{"message":"hello"}`)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}
