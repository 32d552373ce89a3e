package services

import (
	"context"
	"time"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

// DefaultFeaturedAttractions is how many attractions the home page shows
const DefaultFeaturedAttractions = 3

// AttractionService manages attractions and their images
type AttractionService struct {
	core *mediaCore[models.Attraction]
}

func NewAttractionService(repo MediaRepository[models.Attraction], images ImageStore, opts ...Option) *AttractionService {
	return &AttractionService{core: &mediaCore[models.Attraction]{
		base:   newBase(models.KindAttraction, opts),
		repo:   repo,
		images: images,
		get: accessors[models.Attraction]{
			title:     func(a *models.Attraction) string { return a.Name },
			imageURL:  func(a *models.Attraction) string { return a.ImageURL },
			setImage:  func(a *models.Attraction, url string) { a.ImageURL = url },
			updatedAt: func(a *models.Attraction) time.Time { return a.UpdatedAt },
			stamp: func(a *models.Attraction, created, updated time.Time) {
				if !created.IsZero() {
					a.CreatedAt = created
				}
				a.UpdatedAt = updated
			},
		},
	}}
}

func (s *AttractionService) All(ctx context.Context) ([]models.Attraction, error) {
	return s.core.repo.List(ctx, queryAll)
}

func (s *AttractionService) Featured(ctx context.Context, limit int) ([]models.Attraction, error) {
	return s.core.repo.List(ctx, storage.Query{Featured: true, Limit: limitOr(limit, DefaultFeaturedAttractions)})
}

func (s *AttractionService) Find(ctx context.Context, id string) (*models.Attraction, error) {
	return s.core.repo.Get(ctx, id)
}

func (s *AttractionService) Count(ctx context.Context) (int, error) {
	return s.core.count(ctx)
}

// ListAll returns every attraction, newest first, or an empty list on error
func (s *AttractionService) ListAll(ctx context.Context) []models.Attraction {
	items, err := s.All(ctx)
	return collapse(s.core.base, "list all", items, err)
}

// ListFeatured returns at most limit featured attractions
func (s *AttractionService) ListFeatured(ctx context.Context, limit int) []models.Attraction {
	items, err := s.Featured(ctx, limit)
	return collapse(s.core.base, "list featured", items, err)
}

// GetByID returns nil when the attraction does not exist or cannot be read
func (s *AttractionService) GetByID(ctx context.Context, id string) *models.Attraction {
	item, err := s.Find(ctx, id)
	return collapseOne(s.core.base, "get by id", item, err)
}

// Related returns up to n other featured attractions
func (s *AttractionService) Related(ctx context.Context, id string, n int) []models.Attraction {
	items, err := s.core.repo.List(ctx, relatedQuery(true, id, n))
	return collapse(s.core.base, "list related", items, err)
}

// Create uploads the image and inserts the attraction
func (s *AttractionService) Create(ctx context.Context, f models.AttractionFields, img *ImageFile) (string, error) {
	item := &models.Attraction{}
	f.Patch().Apply(item)
	return s.core.create(ctx, item, img)
}

// Update applies the patch and, if img is set, replaces the image
func (s *AttractionService) Update(ctx context.Context, id string, p models.AttractionPatch, img *ImageFile) error {
	return s.core.update(ctx, id, img, func(a *models.Attraction) { p.Apply(a) })
}

func (s *AttractionService) Delete(ctx context.Context, id string) error {
	return s.core.remove(ctx, id)
}
