package forms

import (
	"context"
	"net/http"
	"strings"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/services"
)

// AttractionWriter is the part of the attraction service the form needs
type AttractionWriter interface {
	Create(ctx context.Context, f models.AttractionFields, img *services.ImageFile) (string, error)
	Update(ctx context.Context, id string, p models.AttractionPatch, img *services.ImageFile) error
}

// Attraction is the create/edit form for attractions
type Attraction struct {
	Callbacks

	ID               string
	ImageURL         string
	Name             string   `form:"name" validate:"required,max=200"`
	ShortDescription string   `form:"short_description" validate:"required,max=300"`
	Description      string   `form:"description" validate:"required"`
	Category         string   `form:"category" validate:"required,oneof=natural historical recreational cultural"`
	Latitude         float64  `form:"latitude" validate:"gte=-90,lte=90"`
	Longitude        float64  `form:"longitude" validate:"gte=-180,lte=180"`
	Address          string   `form:"address"`
	Duration         string   `form:"duration" validate:"required"`
	Difficulty       string   `form:"difficulty" validate:"required"`
	Accessibility    string   `form:"accessibility" validate:"required"`
	BestTime         string   `form:"best_time" validate:"required"`
	Highlights       []string `form:"highlights"`
	Featured         bool     `form:"featured"`

	Image *services.ImageFile `form:"-" validate:"-"`

	svc AttractionWriter
}

// NewAttraction seeds the form from existing, or empty defaults when nil
func NewAttraction(svc AttractionWriter, existing *models.Attraction) *Attraction {
	f := &Attraction{svc: svc, Highlights: []string{}}
	if existing == nil {
		return f
	}

	f.ID = existing.ID
	f.ImageURL = existing.ImageURL
	f.Name = existing.Name
	f.ShortDescription = existing.ShortDescription
	f.Description = existing.Description
	f.Category = existing.Category
	f.Latitude = existing.Location.Latitude
	f.Longitude = existing.Location.Longitude
	f.Address = existing.Location.Address
	f.Duration = existing.Duration
	f.Difficulty = existing.Difficulty
	f.Accessibility = existing.Accessibility
	f.BestTime = existing.BestTime
	f.Highlights = append([]string{}, existing.Highlights...)
	f.Featured = existing.Featured
	return f
}

func (f *Attraction) Editing() bool { return f.ID != "" }

func (f *Attraction) SetName(v string) { f.Name = strings.TrimSpace(v) }
func (f *Attraction) SetShortDescription(v string) { f.ShortDescription = strings.TrimSpace(v) }
func (f *Attraction) SetDescription(v string) { f.Description = strings.TrimSpace(v) }
func (f *Attraction) SetCategory(v string) { f.Category = strings.TrimSpace(v) }
func (f *Attraction) SetLatitude(v string) { f.Latitude = ParseFloat(v) }
func (f *Attraction) SetLongitude(v string) { f.Longitude = ParseFloat(v) }
func (f *Attraction) SetAddress(v string) { f.Address = strings.TrimSpace(v) }
func (f *Attraction) SetDuration(v string) { f.Duration = strings.TrimSpace(v) }
func (f *Attraction) SetDifficulty(v string) { f.Difficulty = strings.TrimSpace(v) }
func (f *Attraction) SetAccessibility(v string) { f.Accessibility = strings.TrimSpace(v) }
func (f *Attraction) SetBestTime(v string) { f.BestTime = strings.TrimSpace(v) }
func (f *Attraction) SetHighlights(v string) { f.Highlights = SplitList(v) }
func (f *Attraction) SetFeatured(v string) { f.Featured = ParseBool(v) }
func (f *Attraction) SetImage(img *services.ImageFile) { f.Image = img }

// HighlightsText joins highlights for the text input
func (f *Attraction) HighlightsText() string {
	return strings.Join(f.Highlights, ", ")
}

// Bind reads the submitted fields and optional image
func (f *Attraction) Bind(r *http.Request) error {
	if err := parseRequest(r); err != nil {
		return err
	}
	f.SetName(r.FormValue("name"))
	f.SetShortDescription(r.FormValue("short_description"))
	f.SetDescription(r.FormValue("description"))
	f.SetCategory(r.FormValue("category"))
	f.SetLatitude(r.FormValue("latitude"))
	f.SetLongitude(r.FormValue("longitude"))
	f.SetAddress(r.FormValue("address"))
	f.SetDuration(r.FormValue("duration"))
	f.SetDifficulty(r.FormValue("difficulty"))
	f.SetAccessibility(r.FormValue("accessibility"))
	f.SetBestTime(r.FormValue("best_time"))
	f.SetHighlights(r.FormValue("highlights"))
	f.SetFeatured(r.FormValue("featured"))

	img, err := imageFrom(r)
	if err != nil {
		return err
	}
	f.SetImage(img)
	return nil
}

func (f *Attraction) Validate() error {
	if err := check(f); err != nil {
		return err
	}
	if !f.Editing() && f.Image == nil {
		return services.ErrImageRequired
	}
	return nil
}

// Fields returns the entity fields the form currently holds
func (f *Attraction) Fields() models.AttractionFields {
	return models.AttractionFields{
		Name:             f.Name,
		Description:      f.Description,
		ShortDescription: f.ShortDescription,
		Location: models.Location{
			Latitude:  f.Latitude,
			Longitude: f.Longitude,
			Address:   f.Address,
		},
		Category:      f.Category,
		Difficulty:    f.Difficulty,
		Duration:      f.Duration,
		Accessibility: f.Accessibility,
		Highlights:    f.Highlights,
		BestTime:      f.BestTime,
		Featured:      f.Featured,
	}
}

// Submit creates or updates the attraction and runs the callbacks
func (f *Attraction) Submit(ctx context.Context) (string, error) {
	if err := f.Validate(); err != nil {
		return f.finish("", err)
	}
	if f.Editing() {
		err := f.svc.Update(ctx, f.ID, f.Fields().Patch(), f.Image)
		return f.finish(f.ID, err)
	}
	return f.finish(f.svc.Create(ctx, f.Fields(), f.Image))
}
