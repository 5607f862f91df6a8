package live

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sentimentmodel "github.com/manamitra/companion/backend/internal/model/sentiment"
	"github.com/manamitra/companion/backend/internal/service/sentiment"
)

var _ sentiment.Publisher = (*Hub)(nil)

func TestHubDeliversToMatchingUser(t *testing.T) {
	hub := NewHub(nil)
	mine, cancelMine := hub.Subscribe("u1")
	defer cancelMine()
	other, cancelOther := hub.Subscribe("u2")
	defer cancelOther()

	hub.Publish(sentimentmodel.Record{ID: "r1", UserID: "u1"})

	select {
	case record := <-mine:
		assert.Equal(t, "r1", record.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a record")
	}
	select {
	case <-other:
		t.Fatal("other user must not receive the record")
	default:
	}
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewHub(nil)
	ch, cancel := hub.Subscribe("u1")

	for i := 0; i < subscriberBuffer+3; i++ {
		hub.Publish(sentimentmodel.Record{UserID: "u1"})
	}
	assert.Len(t, ch, subscriberBuffer)

	cancel()
	cancel()
	assert.Zero(t, hub.Subscribers("u1"))
}

func TestWebSocketStreamsRecords(t *testing.T) {
	hub := NewHub(nil)
	r := chi.NewRouter()
	New(hub, nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/users/u1/sentiment/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var hello outgoingMessage
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "connected", hello.Type)

	hub.Publish(sentimentmodel.Record{ID: "r1", UserID: "u1", Level: "High", Score: "91"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var update outgoingMessage
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, "sentiment", update.Type)
	require.NotNil(t, update.Record)
	assert.Equal(t, "r1", update.Record.ID)
	require.NotNil(t, update.Presentation)
	assert.Equal(t, sentiment.TreatmentAlert, update.Presentation.Score.Treatment)
}
