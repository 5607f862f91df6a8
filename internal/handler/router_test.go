package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manamitra/companion/backend/internal/handler/live"
	"github.com/manamitra/companion/backend/internal/metrics"
	"github.com/manamitra/companion/backend/internal/model/conversation"
	"github.com/manamitra/companion/backend/internal/model/profile"
	"github.com/manamitra/companion/backend/internal/model/resource"
	chatService "github.com/manamitra/companion/backend/internal/service/chat"
	sentimentService "github.com/manamitra/companion/backend/internal/service/sentiment"
	"github.com/manamitra/companion/backend/internal/store/memory"
)

type echoResponder struct{}

func (echoResponder) GenerateResponse(_ context.Context, _ []conversation.Turn, msg string, _ conversation.Intent) (string, error) {
	return "You said: " + msg, nil
}

func newTestRouter(t *testing.T) (http.Handler, *int) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.NewSentimentMetrics(reg)
	st := memory.New()
	hub := live.NewHub(nil)

	calls := 0
	scorer := sentimentService.ScorerFunc(func(context.Context, profile.Profile, string) (string, error) {
		calls++
		return `{"level": "Medium", "score": 55, "methodology": "mixed signals"}`, nil
	})

	return NewRouter(Dependencies{
		Chat:       chatService.NewService(st, echoResponder{}, m, nil),
		Sentiment:  sentimentService.NewEngine(st, st, profile.StaticSource{}, scorer, sentimentService.Options{Metrics: m, Publisher: hub}),
		Hub:        hub,
		Profiles:   profile.StaticSource{},
		Strategies: resource.NewMemoryStore(resource.Seed()),
		Gatherer:   reg,
	}), &calls
}

func request(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestRouterConversationToSentimentFlow(t *testing.T) {
	h, calls := newTestRouter(t)

	created := request(h, http.MethodPost, "/api/users", "")
	require.Equal(t, http.StatusCreated, created.Code)
	var user map[string]string
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &user))
	userID := user["userId"]
	require.NotEmpty(t, userID)

	sent := request(h, http.MethodPost, "/api/users/"+userID+"/messages", `{"message":"I am worried about exams"}`)
	require.Equal(t, http.StatusOK, sent.Code)

	first := request(h, http.MethodGet, "/api/users/"+userID+"/sentiment", "")
	require.Equal(t, http.StatusOK, first.Code)
	second := request(h, http.MethodGet, "/api/users/"+userID+"/sentiment", "")
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, 1, *calls)

	var evaluation sentimentService.Evaluation
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &evaluation))
	assert.Equal(t, sentimentService.StateCached, evaluation.State)
	assert.Equal(t, sentimentService.TreatmentCaution, evaluation.Presentation.Score.Treatment)
}

func TestRouterOperationalEndpoints(t *testing.T) {
	h, _ := newTestRouter(t)

	assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "/healthz", "").Code)

	request(h, http.MethodPost, "/api/users/u1/messages", `{"message":"hello"}`)
	metricsResp := request(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, metricsResp.Code)
	assert.Contains(t, metricsResp.Body.String(), "manamitra_chat_turns_total")

	assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "/api/resources?condition=stress", "").Code)
	assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "/api/screenings/phq9", "").Code)
	assert.Equal(t, http.StatusNotImplemented, request(h, http.MethodPost, "/api/speech/synthesize", `{"text":"hi"}`).Code)
}

func TestRouterCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}
