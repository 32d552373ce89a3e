package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

func TestNewsLatestAndCategory(t *testing.T) {
	repo := newNewsRepo()
	logger, _ := testLogger()
	svc := NewNewsService(repo, newMemImages(), WithLogger(logger))
	ctx := context.Background()

	for i, cat := range []string{"events", "tourism", "events", "culture", "events"} {
		repo.seed(models.NewsArticle{Title: cat, Category: cat, CreatedAt: t0.Add(time.Duration(i) * time.Hour)})
	}

	latest := svc.ListLatest(ctx, 0)
	require.Len(t, latest, DefaultLatestNews)
	assert.Equal(t, t0.Add(4*time.Hour), latest[0].CreatedAt)

	events := svc.ListByCategory(ctx, "events")
	assert.Len(t, events, 3)
	for _, n := range events {
		assert.Equal(t, "events", n.Category)
	}

	assert.Empty(t, svc.ListFeatured(ctx, 3), "nothing is featured")
}

func TestNewsRelatedUsesLatest(t *testing.T) {
	repo := newNewsRepo()
	logger, _ := testLogger()
	svc := NewNewsService(repo, newMemImages(), WithLogger(logger))

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, repo.seed(models.NewsArticle{CreatedAt: t0.Add(time.Duration(i) * time.Hour)})...)
	}

	related := svc.Related(context.Background(), ids[0], 3)
	assert.Len(t, related, 2)
	for _, n := range related {
		assert.NotEqual(t, ids[0], n.ID)
	}
	assert.Equal(t, storage.Query{ExcludeID: ids[0], Limit: 3}, repo.queries[len(repo.queries)-1])
}

func TestNewsCreateUpdateDelete(t *testing.T) {
	images := newMemImages()
	logger, _ := testLogger()
	svc := NewNewsService(newNewsRepo(), images, WithLogger(logger), WithClock(stepClock(t0)))
	ctx := context.Background()

	id, err := svc.Create(ctx, models.NewsFields{
		Title:       "Coffee harvest festival",
		Content:     "First paragraph.\n\nSecond paragraph.",
		Excerpt:     "Harvest",
		Category:    "events",
		Author:      "Tourism office",
		PublishDate: "2024-05-01",
	}, pngFile("harvest.png"))
	require.NoError(t, err)

	got := svc.GetByID(ctx, id)
	require.NotNil(t, got)
	assert.Equal(t, []string{"First paragraph.", "Second paragraph."}, got.Paragraphs())
	assert.True(t, strings.Contains(got.ImageURL, "/news/"))

	featured := true
	require.NoError(t, svc.Update(ctx, id, models.NewsPatch{Featured: &featured}, nil))
	updated := svc.GetByID(ctx, id)
	require.NotNil(t, updated)
	assert.True(t, updated.Featured)
	assert.Equal(t, "Coffee harvest festival", updated.Title)

	require.NoError(t, svc.Delete(ctx, id))
	assert.Nil(t, svc.GetByID(ctx, id))
	assert.False(t, images.has(got.ImageURL))
}

func TestGalleryRecentAndCategory(t *testing.T) {
	repo := newGalleryRepo()
	logger, _ := testLogger()
	svc := NewGalleryService(repo, newMemImages(), WithLogger(logger))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		cat := "nature"
		if i%2 == 0 {
			cat = "people"
		}
		repo.seed(models.GalleryItem{Category: cat, CreatedAt: t0.Add(time.Duration(i) * time.Minute)})
	}

	assert.Len(t, svc.ListRecent(ctx, 0), DefaultRecentGallery)
	assert.Len(t, svc.ListRecent(ctx, 2), 2)
	assert.Len(t, svc.ListByCategory(ctx, "people"), 5)
	assert.Len(t, svc.ListAll(ctx), 10)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestGalleryCreateRequiresImage(t *testing.T) {
	repo := newGalleryRepo()
	images := newMemImages()
	logger, _ := testLogger()
	svc := NewGalleryService(repo, images, WithLogger(logger))

	_, err := svc.Create(context.Background(), models.GalleryFields{Title: "Market day"}, nil)
	assert.ErrorIs(t, err, ErrImageRequired)
	assert.Zero(t, repo.inserts)
	assert.Zero(t, images.uploads)
}

func TestCulturalFeaturedUsesIsFeatured(t *testing.T) {
	repo := newCulturalRepo()
	logger, _ := testLogger()
	svc := NewCulturalService(repo, newMemImages(), WithLogger(logger), WithClock(stepClock(t0)))
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		repo.seed(models.CulturalItem{Title: "dance", IsFeatured: i < 5, CreatedAt: t0.Add(time.Duration(i) * time.Minute)})
	}

	featured := svc.ListFeatured(ctx, 0)
	require.Len(t, featured, DefaultFeaturedCultural)
	for _, c := range featured {
		assert.True(t, c.IsFeatured)
	}

	related := svc.Related(ctx, featured[0].ID, 3)
	assert.Len(t, related, 3)
	for _, c := range related {
		assert.NotEqual(t, featured[0].ID, c.ID)
	}
}

func TestCulturalUpdateWithImage(t *testing.T) {
	images := newMemImages()
	logger, _ := testLogger()
	svc := NewCulturalService(newCulturalRepo(), images, WithLogger(logger), WithClock(stepClock(t0)))
	ctx := context.Background()

	id, err := svc.Create(ctx, models.CulturalFields{Title: "Coffee ceremony", Category: "tradition"}, pngFile("c.png"))
	require.NoError(t, err)
	first := svc.GetByID(ctx, id)
	require.NotNil(t, first)

	title := "Buna ceremony"
	require.NoError(t, svc.Update(ctx, id, models.CulturalPatch{Title: &title}, pngFile("d.png")))

	got := svc.GetByID(ctx, id)
	require.NotNil(t, got)
	assert.Equal(t, "Buna ceremony", got.Title)
	assert.Equal(t, "tradition", got.Category)
	assert.NotEqual(t, first.ImageURL, got.ImageURL)
	assert.False(t, images.has(first.ImageURL))
}

func TestUpdateWithBadImageFailsBeforeLoad(t *testing.T) {
	repo := newCulturalRepo()
	repo.failList = errors.New("must not be called")
	logger, _ := testLogger()
	svc := NewCulturalService(repo, newMemImages(), WithLogger(logger))

	err := svc.Update(context.Background(), "id", models.CulturalPatch{}, &ImageFile{Name: "a.txt", ContentType: "text/plain", Reader: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestItineraryLifecycle(t *testing.T) {
	pub := &memPublisher{}
	logger, _ := testLogger()
	svc := NewItineraryService(newItineraryRepo(), WithLogger(logger), WithClock(stepClock(t0)), WithPublisher(pub))
	ctx := context.Background()

	id, err := svc.Create(ctx, models.ItineraryFields{
		Title:      "Two days in Tembaro",
		Duration:   "2 days",
		Difficulty: "easy",
		Highlights: []string{"Wenjelu Waterfall", "Market"},
	})
	require.NoError(t, err)

	got := svc.GetByID(ctx, id)
	require.NotNil(t, got)
	assert.Equal(t, []string{"Wenjelu Waterfall", "Market"}, got.Highlights)

	difficulty := "moderate"
	require.NoError(t, svc.Update(ctx, id, models.ItineraryPatch{Difficulty: &difficulty}))
	updated := svc.GetByID(ctx, id)
	require.NotNil(t, updated)
	assert.Equal(t, "moderate", updated.Difficulty)
	assert.Equal(t, "2 days", updated.Duration)
	assert.True(t, updated.UpdatedAt.After(got.UpdatedAt))

	require.NoError(t, svc.Delete(ctx, id))
	assert.Nil(t, svc.GetByID(ctx, id))
	assert.Equal(t, []string{
		"content.itineraries.created",
		"content.itineraries.updated",
		"content.itineraries.deleted",
	}, pub.keys())
}

func TestItineraryWriteFailure(t *testing.T) {
	repo := newItineraryRepo()
	repo.failWrite = errors.New("permission denied for table itineraries")
	logger, buf := testLogger()
	svc := NewItineraryService(repo, WithLogger(logger))

	_, err := svc.Create(context.Background(), models.ItineraryFields{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, "permission denied for table itineraries", err.Error())
	assert.Contains(t, buf.String(), "Backend write failed")
}
