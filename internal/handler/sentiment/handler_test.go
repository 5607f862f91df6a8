package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manamitra/companion/backend/internal/model/conversation"
	"github.com/manamitra/companion/backend/internal/model/profile"
	sentimentservice "github.com/manamitra/companion/backend/internal/service/sentiment"
	"github.com/manamitra/companion/backend/internal/store/memory"
)

type stubEvaluator struct {
	err error
}

func (s stubEvaluator) Evaluate(context.Context, string) (sentimentservice.Evaluation, error) {
	return sentimentservice.Evaluation{}, s.err
}

func (s stubEvaluator) History(context.Context, string) (sentimentservice.History, error) {
	return sentimentservice.History{}, s.err
}

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func TestEvaluateWithEngine(t *testing.T) {
	st := memory.New()
	scorer := sentimentservice.ScorerFunc(func(context.Context, profile.Profile, string) (string, error) {
		return `{"level": "Low", "score": 20, "methodology": "calm conversation"}`, nil
	})
	engine := sentimentservice.NewEngine(st, st, profile.StaticSource{}, scorer, sentimentservice.Options{})
	h := New(engine, nil)

	resp := serve(h, "/users/u1/sentiment")
	require.Equal(t, http.StatusOK, resp.Code)
	var empty map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &empty))
	assert.Equal(t, "insufficient_data", empty["state"])

	_, err := st.AppendTurn(context.Background(), conversation.Turn{UserID: "u1", Message: "hi", Response: "hello"})
	require.NoError(t, err)

	resp = serve(h, "/users/u1/sentiment")
	require.Equal(t, http.StatusOK, resp.Code)
	var evaluation sentimentservice.Evaluation
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &evaluation))
	assert.Equal(t, sentimentservice.StateFresh, evaluation.State)
	require.NotNil(t, evaluation.Presentation)
	assert.Equal(t, sentimentservice.TreatmentFavorable, evaluation.Presentation.Score.Treatment)

	resp = serve(h, "/users/u1/sentiment/history")
	require.Equal(t, http.StatusOK, resp.Code)
	var history sentimentservice.History
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &history))
	assert.Len(t, history.Records, 1)
	assert.Len(t, history.Trend, 1)
}

func TestEvaluateErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: boom", sentimentservice.ErrScoringUnavailable), http.StatusServiceUnavailable},
		{fmt.Errorf("%w: missing file", sentimentservice.ErrProfileUnavailable), http.StatusInternalServerError},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		resp := serve(New(stubEvaluator{err: tc.err}, nil), "/users/u1/sentiment")
		assert.Equal(t, tc.want, resp.Code, tc.err.Error())
	}
}
