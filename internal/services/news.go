package services

import (
	"context"
	"time"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

const (
	DefaultFeaturedNews = 3
	DefaultLatestNews   = 3
)

// NewsService manages news articles and their cover images
type NewsService struct {
	core *mediaCore[models.NewsArticle]
}

func NewNewsService(repo MediaRepository[models.NewsArticle], images ImageStore, opts ...Option) *NewsService {
	return &NewsService{core: &mediaCore[models.NewsArticle]{
		base:   newBase(models.KindNews, opts),
		repo:   repo,
		images: images,
		get: accessors[models.NewsArticle]{
			title:     func(n *models.NewsArticle) string { return n.Title },
			imageURL:  func(n *models.NewsArticle) string { return n.ImageURL },
			setImage:  func(n *models.NewsArticle, url string) { n.ImageURL = url },
			updatedAt: func(n *models.NewsArticle) time.Time { return n.UpdatedAt },
			stamp: func(n *models.NewsArticle, created, updated time.Time) {
				if !created.IsZero() {
					n.CreatedAt = created
				}
				n.UpdatedAt = updated
			},
		},
	}}
}

func (s *NewsService) All(ctx context.Context) ([]models.NewsArticle, error) {
	return s.core.repo.List(ctx, queryAll)
}

func (s *NewsService) Featured(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	return s.core.repo.List(ctx, storage.Query{Featured: true, Limit: limitOr(limit, DefaultFeaturedNews)})
}

func (s *NewsService) Latest(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	return s.core.repo.List(ctx, storage.Query{Limit: limitOr(limit, DefaultLatestNews)})
}

func (s *NewsService) ByCategory(ctx context.Context, category string) ([]models.NewsArticle, error) {
	return s.core.repo.List(ctx, storage.Query{Category: category})
}

func (s *NewsService) Find(ctx context.Context, id string) (*models.NewsArticle, error) {
	return s.core.repo.Get(ctx, id)
}

func (s *NewsService) Count(ctx context.Context) (int, error) {
	return s.core.count(ctx)
}

func (s *NewsService) ListAll(ctx context.Context) []models.NewsArticle {
	items, err := s.All(ctx)
	return collapse(s.core.base, "list all", items, err)
}

func (s *NewsService) ListFeatured(ctx context.Context, limit int) []models.NewsArticle {
	items, err := s.Featured(ctx, limit)
	return collapse(s.core.base, "list featured", items, err)
}

// ListLatest returns the most recent articles regardless of the featured flag
func (s *NewsService) ListLatest(ctx context.Context, limit int) []models.NewsArticle {
	items, err := s.Latest(ctx, limit)
	return collapse(s.core.base, "list latest", items, err)
}

func (s *NewsService) ListByCategory(ctx context.Context, category string) []models.NewsArticle {
	items, err := s.ByCategory(ctx, category)
	return collapse(s.core.base, "list by category", items, err)
}

func (s *NewsService) GetByID(ctx context.Context, id string) *models.NewsArticle {
	item, err := s.Find(ctx, id)
	return collapseOne(s.core.base, "get by id", item, err)
}

// Related returns up to n of the latest other articles
func (s *NewsService) Related(ctx context.Context, id string, n int) []models.NewsArticle {
	items, err := s.core.repo.List(ctx, relatedQuery(false, id, n))
	return collapse(s.core.base, "list related", items, err)
}

func (s *NewsService) Create(ctx context.Context, f models.NewsFields, img *ImageFile) (string, error) {
	item := &models.NewsArticle{}
	f.Patch().Apply(item)
	return s.core.create(ctx, item, img)
}

func (s *NewsService) Update(ctx context.Context, id string, p models.NewsPatch, img *ImageFile) error {
	return s.core.update(ctx, id, img, func(n *models.NewsArticle) { p.Apply(n) })
}

func (s *NewsService) Delete(ctx context.Context, id string) error {
	return s.core.remove(ctx, id)
}
