package forms

import (
	"context"
	"net/http"
	"strings"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/services"
)

type CultureWriter interface {
	Create(ctx context.Context, f models.CulturalFields, img *services.ImageFile) (string, error)
	Update(ctx context.Context, id string, p models.CulturalPatch, img *services.ImageFile) error
}

// Culture is the create/edit form for cultural items
type Culture struct {
	Callbacks

	ID          string
	ImageURL    string
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"required"`
	Category    string `form:"category" validate:"required,oneof=tradition festival craft music dance food"`
	IsFeatured  bool   `form:"is_featured"`

	Image *services.ImageFile `form:"-" validate:"-"`

	svc CultureWriter
}

func NewCulture(svc CultureWriter, existing *models.CulturalItem) *Culture {
	if existing == nil {
		return &Culture{svc: svc}
	}
	return &Culture{
		svc:         svc,
		ID:          existing.ID,
		ImageURL:    existing.ImageURL,
		Title:       existing.Title,
		Description: existing.Description,
		Category:    existing.Category,
		IsFeatured:  existing.IsFeatured,
	}
}

func (f *Culture) Editing() bool { return f.ID != "" }

func (f *Culture) SetTitle(v string) { f.Title = strings.TrimSpace(v) }
func (f *Culture) SetDescription(v string) { f.Description = strings.TrimSpace(v) }
func (f *Culture) SetCategory(v string) { f.Category = strings.TrimSpace(v) }
func (f *Culture) SetFeatured(v string) { f.IsFeatured = ParseBool(v) }
func (f *Culture) SetImage(img *services.ImageFile) { f.Image = img }

func (f *Culture) Bind(r *http.Request) error {
	if err := parseRequest(r); err != nil {
		return err
	}
	f.SetTitle(r.FormValue("title"))
	f.SetDescription(r.FormValue("description"))
	f.SetCategory(r.FormValue("category"))
	f.SetFeatured(r.FormValue("is_featured"))

	img, err := imageFrom(r)
	if err != nil {
		return err
	}
	f.SetImage(img)
	return nil
}

func (f *Culture) Validate() error {
	if err := check(f); err != nil {
		return err
	}
	if !f.Editing() && f.Image == nil {
		return services.ErrImageRequired
	}
	return nil
}

func (f *Culture) Fields() models.CulturalFields {
	return models.CulturalFields{
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		IsFeatured:  f.IsFeatured,
	}
}

func (f *Culture) Submit(ctx context.Context) (string, error) {
	if err := f.Validate(); err != nil {
		return f.finish("", err)
	}
	if f.Editing() {
		return f.finish(f.ID, f.svc.Update(ctx, f.ID, f.Fields().Patch(), f.Image))
	}
	return f.finish(f.svc.Create(ctx, f.Fields(), f.Image))
}
