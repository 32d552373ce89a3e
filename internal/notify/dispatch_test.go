package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/events"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
)

type recorder struct {
	contacts []models.ContactSubmittedEvent
	changes  []models.ContentChangedEvent
	err      error
}

func (r *recorder) ContactSubmitted(_ context.Context, e models.ContactSubmittedEvent) error {
	r.contacts = append(r.contacts, e)
	return r.err
}

func (r *recorder) ContentChanged(_ context.Context, e models.ContentChangedEvent) error {
	r.changes = append(r.changes, e)
	return r.err
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestDispatcherRoutes(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec)
	ctx := context.Background()

	require.NoError(t, d.Handle(ctx, "contact.submitted", mustJSON(t, models.ContactSubmittedEvent{ID: "m1", Email: "a@b.c"})))
	require.NoError(t, d.Handle(ctx, "content.news.updated", mustJSON(t, models.ContentChangedEvent{Kind: "news", Action: "updated", ID: "n1"})))

	require.Len(t, rec.contacts, 1)
	assert.Equal(t, "m1", rec.contacts[0].ID)
	require.Len(t, rec.changes, 1)
	assert.Equal(t, "n1", rec.changes[0].ID)
}

func TestDispatcherMalformed(t *testing.T) {
	d := NewDispatcher(&recorder{})
	ctx := context.Background()

	assert.ErrorIs(t, d.Handle(ctx, "contact.submitted", []byte("nope")), events.ErrMalformed)
	assert.ErrorIs(t, d.Handle(ctx, "item.embedded", []byte("{}")), events.ErrMalformed)
}

func TestDispatcherPassesNotifierErrors(t *testing.T) {
	rec := &recorder{err: errors.New("webhook down")}
	err := NewDispatcher(rec).Handle(context.Background(), "content.gallery.created", []byte(`{"kind":"gallery"}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, events.ErrMalformed)
}
