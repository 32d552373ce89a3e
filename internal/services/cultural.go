package services

import (
	"context"
	"time"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

const DefaultFeaturedCultural = 4

// CulturalService manages cultural heritage items
type CulturalService struct {
	core *mediaCore[models.CulturalItem]
}

func NewCulturalService(repo MediaRepository[models.CulturalItem], images ImageStore, opts ...Option) *CulturalService {
	return &CulturalService{core: &mediaCore[models.CulturalItem]{
		base:   newBase(models.KindCultural, opts),
		repo:   repo,
		images: images,
		get: accessors[models.CulturalItem]{
			title:     func(c *models.CulturalItem) string { return c.Title },
			imageURL:  func(c *models.CulturalItem) string { return c.ImageURL },
			setImage:  func(c *models.CulturalItem, url string) { c.ImageURL = url },
			updatedAt: func(c *models.CulturalItem) time.Time { return c.UpdatedAt },
			stamp: func(c *models.CulturalItem, created, updated time.Time) {
				if !created.IsZero() {
					c.CreatedAt = created
				}
				c.UpdatedAt = updated
			},
		},
	}}
}

func (s *CulturalService) All(ctx context.Context) ([]models.CulturalItem, error) {
	return s.core.repo.List(ctx, queryAll)
}

// Featured filters on is_featured
func (s *CulturalService) Featured(ctx context.Context, limit int) ([]models.CulturalItem, error) {
	return s.core.repo.List(ctx, storage.Query{Featured: true, Limit: limitOr(limit, DefaultFeaturedCultural)})
}

func (s *CulturalService) Find(ctx context.Context, id string) (*models.CulturalItem, error) {
	return s.core.repo.Get(ctx, id)
}

func (s *CulturalService) Count(ctx context.Context) (int, error) {
	return s.core.count(ctx)
}

func (s *CulturalService) ListAll(ctx context.Context) []models.CulturalItem {
	items, err := s.All(ctx)
	return collapse(s.core.base, "list all", items, err)
}

func (s *CulturalService) ListFeatured(ctx context.Context, limit int) []models.CulturalItem {
	items, err := s.Featured(ctx, limit)
	return collapse(s.core.base, "list featured", items, err)
}

func (s *CulturalService) GetByID(ctx context.Context, id string) *models.CulturalItem {
	item, err := s.Find(ctx, id)
	return collapseOne(s.core.base, "get by id", item, err)
}

func (s *CulturalService) Related(ctx context.Context, id string, n int) []models.CulturalItem {
	items, err := s.core.repo.List(ctx, relatedQuery(true, id, n))
	return collapse(s.core.base, "list related", items, err)
}

func (s *CulturalService) Create(ctx context.Context, f models.CulturalFields, img *ImageFile) (string, error) {
	item := &models.CulturalItem{}
	f.Patch().Apply(item)
	return s.core.create(ctx, item, img)
}

func (s *CulturalService) Update(ctx context.Context, id string, p models.CulturalPatch, img *ImageFile) error {
	return s.core.update(ctx, id, img, func(c *models.CulturalItem) { p.Apply(c) })
}

func (s *CulturalService) Delete(ctx context.Context, id string) error {
	return s.core.remove(ctx, id)
}
