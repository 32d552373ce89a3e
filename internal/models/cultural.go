package models

import "time"

// CulturalItem describes a tradition, festival, craft or dish of the region
type CulturalItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CulturalFields struct {
	Title       string
	Description string
	Category    string
	IsFeatured  bool
}

type CulturalPatch struct {
	Title       *string
	Description *string
	Category    *string
	IsFeatured  *bool
}

func (p CulturalPatch) Apply(c *CulturalItem) {
	setString(&c.Title, p.Title)
	setString(&c.Description, p.Description)
	setString(&c.Category, p.Category)
	setBool(&c.IsFeatured, p.IsFeatured)
}

func (f CulturalFields) Patch() CulturalPatch {
	return CulturalPatch{
		Title:       &f.Title,
		Description: &f.Description,
		Category:    &f.Category,
		IsFeatured:  &f.IsFeatured,
	}
}

var CulturalCategories = []string{
	"tradition",
	"festival",
	"craft",
	"music",
	"dance",
	"food",
}
