package main

import (
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
)

func TestPlaceholderIsPNG(t *testing.T) {
	img, err := placeholder("Wenjelu Waterfall", 2)
	require.NoError(t, err)

	assert.Equal(t, "wenjelu-waterfall.png", img.Name)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Positive(t, img.Size)

	decoded, err := png.Decode(img.Reader)
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
}

func TestSampleCategoriesAreKnown(t *testing.T) {
	for _, a := range sampleAttractions {
		assert.Contains(t, models.AttractionCategories, a.Category, a.Name)
	}
	for _, n := range sampleNews {
		assert.Contains(t, models.NewsCategories, n.Category, n.Title)
	}
	for _, g := range sampleGallery {
		assert.Contains(t, models.GalleryCategories, g.Category, g.Title)
	}
	for _, c := range sampleCultural {
		assert.Contains(t, models.CulturalCategories, c.Category, c.Title)
	}
}
