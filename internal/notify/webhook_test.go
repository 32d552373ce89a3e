package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
)

func TestContactSubmitted(t *testing.T) {
	var (
		got    Notification
		header http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewWebhookClient(srv.URL, "s3cret")
	err := client.ContactSubmitted(context.Background(), models.ContactSubmittedEvent{
		ID:      "m1",
		Name:    "Almaz",
		Email:   "almaz@example.com",
		Subject: "Guided tours",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer s3cret", header.Get("Authorization"))
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.Equal(t, "contact.submitted", got.Type)
	assert.Equal(t, "New message from Almaz <almaz@example.com>: Guided tours", got.Text)
}

func TestContentChangedWithoutToken(t *testing.T) {
	var (
		got  Notification
		auth string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	client := NewWebhookClient(srv.URL, "")
	err := client.ContentChanged(context.Background(), models.ContentChangedEvent{
		Kind:   models.KindNews,
		Action: "deleted",
		ID:     "n1",
	})
	require.NoError(t, err)

	assert.Empty(t, auth)
	assert.Equal(t, "content.deleted", got.Type)
	assert.Equal(t, "news n1 deleted", got.Text)
}

func TestWebhookErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "channel archived", http.StatusGone)
	}))
	defer srv.Close()

	err := NewWebhookClient(srv.URL, "").ContentChanged(context.Background(), models.ContentChangedEvent{Kind: "gallery", Action: "created", Title: "Market"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "410")
	assert.Contains(t, err.Error(), "channel archived")
}
