package models

import "time"

// GalleryItem is a single photo in the public gallery
type GalleryItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GalleryFields struct {
	Title       string
	Description string
	Category    string
}

type GalleryPatch struct {
	Title       *string
	Description *string
	Category    *string
}

func (p GalleryPatch) Apply(g *GalleryItem) {
	setString(&g.Title, p.Title)
	setString(&g.Description, p.Description)
	setString(&g.Category, p.Category)
}

func (f GalleryFields) Patch() GalleryPatch {
	return GalleryPatch{
		Title:       &f.Title,
		Description: &f.Description,
		Category:    &f.Category,
	}
}

var GalleryCategories = []string{
	"nature",
	"culture",
	"events",
	"people",
	"architecture",
	"landscape",
}
