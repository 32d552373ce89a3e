package services

import (
	"context"
	"time"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

// DefaultRecentGallery is how many photos the home page strip shows
const DefaultRecentGallery = 8

// GalleryService manages gallery photos. Every item must have an image.
type GalleryService struct {
	core *mediaCore[models.GalleryItem]
}

func NewGalleryService(repo MediaRepository[models.GalleryItem], images ImageStore, opts ...Option) *GalleryService {
	return &GalleryService{core: &mediaCore[models.GalleryItem]{
		base:   newBase(models.KindGallery, opts),
		repo:   repo,
		images: images,
		get: accessors[models.GalleryItem]{
			title:     func(g *models.GalleryItem) string { return g.Title },
			imageURL:  func(g *models.GalleryItem) string { return g.ImageURL },
			setImage:  func(g *models.GalleryItem, url string) { g.ImageURL = url },
			updatedAt: func(g *models.GalleryItem) time.Time { return g.UpdatedAt },
			stamp: func(g *models.GalleryItem, created, updated time.Time) {
				if !created.IsZero() {
					g.CreatedAt = created
				}
				g.UpdatedAt = updated
			},
		},
	}}
}

func (s *GalleryService) All(ctx context.Context) ([]models.GalleryItem, error) {
	return s.core.repo.List(ctx, queryAll)
}

func (s *GalleryService) ByCategory(ctx context.Context, category string) ([]models.GalleryItem, error) {
	return s.core.repo.List(ctx, storage.Query{Category: category})
}

func (s *GalleryService) Recent(ctx context.Context, limit int) ([]models.GalleryItem, error) {
	return s.core.repo.List(ctx, storage.Query{Limit: limitOr(limit, DefaultRecentGallery)})
}

func (s *GalleryService) Find(ctx context.Context, id string) (*models.GalleryItem, error) {
	return s.core.repo.Get(ctx, id)
}

func (s *GalleryService) Count(ctx context.Context) (int, error) {
	return s.core.count(ctx)
}

func (s *GalleryService) ListAll(ctx context.Context) []models.GalleryItem {
	items, err := s.All(ctx)
	return collapse(s.core.base, "list all", items, err)
}

func (s *GalleryService) ListByCategory(ctx context.Context, category string) []models.GalleryItem {
	items, err := s.ByCategory(ctx, category)
	return collapse(s.core.base, "list by category", items, err)
}

func (s *GalleryService) ListRecent(ctx context.Context, limit int) []models.GalleryItem {
	items, err := s.Recent(ctx, limit)
	return collapse(s.core.base, "list recent", items, err)
}

func (s *GalleryService) GetByID(ctx context.Context, id string) *models.GalleryItem {
	item, err := s.Find(ctx, id)
	return collapseOne(s.core.base, "get by id", item, err)
}

func (s *GalleryService) Create(ctx context.Context, f models.GalleryFields, img *ImageFile) (string, error) {
	item := &models.GalleryItem{}
	f.Patch().Apply(item)
	return s.core.create(ctx, item, img)
}

func (s *GalleryService) Update(ctx context.Context, id string, p models.GalleryPatch, img *ImageFile) error {
	return s.core.update(ctx, id, img, func(g *models.GalleryItem) { p.Apply(g) })
}

func (s *GalleryService) Delete(ctx context.Context, id string) error {
	return s.core.remove(ctx, id)
}
