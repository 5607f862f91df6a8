package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusNotFound, "missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"missing"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var payload struct {
		Message string `json:"message"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hi"}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &payload))
	assert.Equal(t, "hi", payload.Message)

	empty := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.EqualError(t, DecodeJSON(httptest.NewRecorder(), empty, &payload), "request body is empty")

	broken := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	assert.Error(t, DecodeJSON(httptest.NewRecorder(), broken, &payload))
}
