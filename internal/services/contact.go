package services

import (
	"context"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

// ContactSubmittedKey is the routing key for new contact messages
const ContactSubmittedKey = "contact.submitted"

// ContactService stores messages from the public contact form.
// Messages are immutable apart from the read flag.
type ContactService struct {
	*base
	repo FlagRepository[models.ContactMessage]
}

func NewContactService(repo FlagRepository[models.ContactMessage], opts ...Option) *ContactService {
	return &ContactService{base: newBase(models.KindContact, opts), repo: repo}
}

func (s *ContactService) All(ctx context.Context) ([]models.ContactMessage, error) {
	return s.repo.List(ctx, queryAll)
}

func (s *ContactService) Unread(ctx context.Context) ([]models.ContactMessage, error) {
	return s.repo.List(ctx, storage.Query{Unread: true})
}

func (s *ContactService) Find(ctx context.Context, id string) (*models.ContactMessage, error) {
	return s.repo.Get(ctx, id)
}

func (s *ContactService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx, queryAll)
}

func (s *ContactService) UnreadCount(ctx context.Context) (int, error) {
	return s.repo.Count(ctx, storage.Query{Unread: true})
}

func (s *ContactService) ListAll(ctx context.Context) []models.ContactMessage {
	items, err := s.All(ctx)
	return collapse(s.base, "list all", items, err)
}

func (s *ContactService) ListUnread(ctx context.Context) []models.ContactMessage {
	items, err := s.Unread(ctx)
	return collapse(s.base, "list unread", items, err)
}

func (s *ContactService) GetByID(ctx context.Context, id string) *models.ContactMessage {
	item, err := s.Find(ctx, id)
	return collapseOne(s.base, "get by id", item, err)
}

// Create stores a new unread message and notifies subscribers
func (s *ContactService) Create(ctx context.Context, f models.ContactFields) (string, error) {
	msg := &models.ContactMessage{
		Name:      f.Name,
		Email:     f.Email,
		Subject:   f.Subject,
		Message:   f.Message,
		Read:      false,
		CreatedAt: s.clock(),
	}

	id, err := s.repo.Insert(ctx, msg)
	if err != nil {
		return "", s.fail("insert", err)
	}

	s.logger.Info().Str("kind", s.kind).Str("id", id).Str("email", msg.Email).Msg("Contact message received")
	s.emit(ctx, ContactSubmittedKey, models.ContactSubmittedEvent{
		ID:        id,
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Message:   msg.Message,
		Timestamp: msg.CreatedAt,
	})
	return id, nil
}

// MarkAsRead sets only the read flag. Marking an already read message is a no-op.
func (s *ContactService) MarkAsRead(ctx context.Context, id string) error {
	if err := s.repo.SetFlag(ctx, id, "read", true); err != nil {
		return s.fail("mark as read", err)
	}
	return nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail("delete", err)
	}
	s.logger.Info().Str("kind", s.kind).Str("id", id).Msg("Deleted")
	return nil
}
