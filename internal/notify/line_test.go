package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineSendText(t *testing.T) {
	var gotAuth string
	var gotBody linePushRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/bot/message/push", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewLineClient(srv.URL, "channel-token")
	err := c.SendText(context.Background(), "U123", "see you soon")
	require.NoError(t, err)

	assert.Equal(t, "Bearer channel-token", gotAuth)
	assert.Equal(t, "U123", gotBody.To)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "text", gotBody.Messages[0].Type)
	assert.Equal(t, "see you soon", gotBody.Messages[0].Text)
}

func TestLineSendTextNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewLineClient(srv.URL, "bad-token")
	err := c.SendText(context.Background(), "U123", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestLineSendTextConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	c := NewLineClient(srv.URL, "token")
	assert.Error(t, c.SendText(context.Background(), "U123", "hello"))
}
