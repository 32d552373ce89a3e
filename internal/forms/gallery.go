package forms

import (
	"context"
	"net/http"
	"strings"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/services"
)

type GalleryWriter interface {
	Create(ctx context.Context, f models.GalleryFields, img *services.ImageFile) (string, error)
	Update(ctx context.Context, id string, p models.GalleryPatch, img *services.ImageFile) error
}

// Gallery is the create/edit form for gallery photos
type Gallery struct {
	Callbacks

	ID          string
	ImageURL    string
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"required"`
	Category    string `form:"category" validate:"required,oneof=nature culture events people architecture landscape"`

	Image *services.ImageFile `form:"-" validate:"-"`

	svc GalleryWriter
}

func NewGallery(svc GalleryWriter, existing *models.GalleryItem) *Gallery {
	if existing == nil {
		return &Gallery{svc: svc}
	}
	return &Gallery{
		svc:         svc,
		ID:          existing.ID,
		ImageURL:    existing.ImageURL,
		Title:       existing.Title,
		Description: existing.Description,
		Category:    existing.Category,
	}
}

func (f *Gallery) Editing() bool { return f.ID != "" }

func (f *Gallery) SetTitle(v string) { f.Title = strings.TrimSpace(v) }
func (f *Gallery) SetDescription(v string) { f.Description = strings.TrimSpace(v) }
func (f *Gallery) SetCategory(v string) { f.Category = strings.TrimSpace(v) }
func (f *Gallery) SetImage(img *services.ImageFile) { f.Image = img }

func (f *Gallery) Bind(r *http.Request) error {
	if err := parseRequest(r); err != nil {
		return err
	}
	f.SetTitle(r.FormValue("title"))
	f.SetDescription(r.FormValue("description"))
	f.SetCategory(r.FormValue("category"))

	img, err := imageFrom(r)
	if err != nil {
		return err
	}
	f.SetImage(img)
	return nil
}

func (f *Gallery) Validate() error {
	if err := check(f); err != nil {
		return err
	}
	if !f.Editing() && f.Image == nil {
		return services.ErrImageRequired
	}
	return nil
}

func (f *Gallery) Fields() models.GalleryFields {
	return models.GalleryFields{Title: f.Title, Description: f.Description, Category: f.Category}
}

func (f *Gallery) Submit(ctx context.Context) (string, error) {
	if err := f.Validate(); err != nil {
		return f.finish("", err)
	}
	if f.Editing() {
		return f.finish(f.ID, f.svc.Update(ctx, f.ID, f.Fields().Patch(), f.Image))
	}
	return f.finish(f.svc.Create(ctx, f.Fields(), f.Image))
}
