package publisher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordPublisher_Publish(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := NewDiscordPublisher(srv.URL, "1234567890")
	err := p.Publish(context.Background(), "Today's calendar")
	require.NoError(t, err)

	var payload webhookPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "Today's calendar", payload.Content)
}

func TestDiscordPublisher_Publish_unexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Invalid Webhook Token"}`))
	}))
	defer srv.Close()

	p := NewDiscordPublisher(srv.URL, "1234567890")
	err := p.Publish(context.Background(), "Today's calendar")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "Invalid Webhook Token")
}

func TestDiscordPublisher_Publish_transportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	p := NewDiscordPublisher(srv.URL, "1234567890")
	err := p.Publish(context.Background(), "Today's calendar")
	assert.ErrorIs(t, err, ErrSendFailed)
}
