package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
)

func newContactFixture(t *testing.T) (*ContactService, *memRepo[models.ContactMessage], *memPublisher) {
	t.Helper()
	repo := newContactRepo()
	pub := &memPublisher{}
	logger, _ := testLogger()
	return NewContactService(repo, WithLogger(logger), WithPublisher(pub), WithClock(stepClock(t0))), repo, pub
}

func message() models.ContactFields {
	return models.ContactFields{
		Name:    "Almaz",
		Email:   "almaz@example.com",
		Subject: "Guided tours",
		Message: "Do you offer guided tours to the waterfall?",
	}
}

func TestContactCreateIsUnread(t *testing.T) {
	svc, _, pub := newContactFixture(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, message())
	require.NoError(t, err)

	got := svc.GetByID(ctx, id)
	require.NotNil(t, got)
	assert.False(t, got.Read)
	assert.Equal(t, "Guided tours", got.Subject)
	assert.Equal(t, t0, got.CreatedAt)

	require.Len(t, pub.events, 1)
	assert.Equal(t, ContactSubmittedKey, pub.events[0].key)
	event, ok := pub.events[0].payload.(models.ContactSubmittedEvent)
	require.True(t, ok)
	assert.Equal(t, id, event.ID)
	assert.Equal(t, "almaz@example.com", event.Email)
}

func TestMarkAsReadTwiceIsIdempotent(t *testing.T) {
	svc, _, _ := newContactFixture(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, message())
	require.NoError(t, err)

	require.NoError(t, svc.MarkAsRead(ctx, id))
	require.NoError(t, svc.MarkAsRead(ctx, id))

	got := svc.GetByID(ctx, id)
	require.NotNil(t, got)
	assert.True(t, got.Read)
	assert.Equal(t, "Do you offer guided tours to the waterfall?", got.Message)
}

func TestMarkAsReadMissing(t *testing.T) {
	svc, _, _ := newContactFixture(t)
	err := svc.MarkAsRead(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContactUnread(t *testing.T) {
	svc, _, _ := newContactFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, message())
	require.NoError(t, err)
	_, err = svc.Create(ctx, message())
	require.NoError(t, err)
	require.NoError(t, svc.MarkAsRead(ctx, first))

	unread := svc.ListUnread(ctx)
	require.Len(t, unread, 1)
	assert.NotEqual(t, first, unread[0].ID)

	n, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Len(t, svc.ListAll(ctx), 2)
}

func TestContactDelete(t *testing.T) {
	svc, _, _ := newContactFixture(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, message())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))
	assert.Nil(t, svc.GetByID(ctx, id))
}

func TestContactReadFailureCollapses(t *testing.T) {
	svc, repo, _ := newContactFixture(t)
	repo.failList = errors.New("timeout")

	assert.Empty(t, svc.ListAll(context.Background()))
	assert.Empty(t, svc.ListUnread(context.Background()))

	_, err := svc.Unread(context.Background())
	assert.Error(t, err)
}
