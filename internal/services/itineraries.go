package services

import (
	"context"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
)

// ItineraryService manages suggested visit plans. Itineraries have no image.
type ItineraryService struct {
	*base
	repo Repository[models.Itinerary]
}

func NewItineraryService(repo Repository[models.Itinerary], opts ...Option) *ItineraryService {
	return &ItineraryService{base: newBase(models.KindItinerary, opts), repo: repo}
}

func (s *ItineraryService) All(ctx context.Context) ([]models.Itinerary, error) {
	return s.repo.List(ctx, queryAll)
}

func (s *ItineraryService) Find(ctx context.Context, id string) (*models.Itinerary, error) {
	return s.repo.Get(ctx, id)
}

func (s *ItineraryService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx, queryAll)
}

func (s *ItineraryService) ListAll(ctx context.Context) []models.Itinerary {
	items, err := s.All(ctx)
	return collapse(s.base, "list all", items, err)
}

func (s *ItineraryService) GetByID(ctx context.Context, id string) *models.Itinerary {
	item, err := s.Find(ctx, id)
	return collapseOne(s.base, "get by id", item, err)
}

func (s *ItineraryService) Create(ctx context.Context, f models.ItineraryFields) (string, error) {
	item := &models.Itinerary{}
	f.Patch().Apply(item)
	now := s.clock()
	item.CreatedAt = now
	item.UpdatedAt = now

	id, err := s.repo.Insert(ctx, item)
	if err != nil {
		return "", s.fail("insert", err)
	}
	s.logger.Info().Str("kind", s.kind).Str("id", id).Msg("Created")
	s.publish(ctx, "created", id, item.Title, "")
	return id, nil
}

func (s *ItineraryService) Update(ctx context.Context, id string, p models.ItineraryPatch) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return s.fail("load", err)
	}
	p.Apply(current)
	current.UpdatedAt = s.advance(current.UpdatedAt)

	if err := s.repo.Update(ctx, id, current); err != nil {
		return s.fail("update", err)
	}
	s.logger.Info().Str("kind", s.kind).Str("id", id).Msg("Updated")
	s.publish(ctx, "updated", id, current.Title, "")
	return nil
}

func (s *ItineraryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail("delete", err)
	}
	s.logger.Info().Str("kind", s.kind).Str("id", id).Msg("Deleted")
	s.publish(ctx, "deleted", id, "", "")
	return nil
}
