package forms

import (
	"context"
	"net/http"
	"strings"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
)

type ItineraryWriter interface {
	Create(ctx context.Context, f models.ItineraryFields) (string, error)
	Update(ctx context.Context, id string, p models.ItineraryPatch) error
}

// Itinerary is the create/edit form for visit plans. There is no image.
type Itinerary struct {
	Callbacks

	ID          string
	Title       string   `form:"title" validate:"required,max=200"`
	Description string   `form:"description" validate:"required"`
	Duration    string   `form:"duration" validate:"required"`
	Difficulty  string   `form:"difficulty" validate:"required"`
	Highlights  []string `form:"highlights"`

	svc ItineraryWriter
}

func NewItinerary(svc ItineraryWriter, existing *models.Itinerary) *Itinerary {
	if existing == nil {
		return &Itinerary{svc: svc, Highlights: []string{}}
	}
	return &Itinerary{
		svc:         svc,
		ID:          existing.ID,
		Title:       existing.Title,
		Description: existing.Description,
		Duration:    existing.Duration,
		Difficulty:  existing.Difficulty,
		Highlights:  append([]string{}, existing.Highlights...),
	}
}

func (f *Itinerary) Editing() bool { return f.ID != "" }

func (f *Itinerary) SetTitle(v string) { f.Title = strings.TrimSpace(v) }
func (f *Itinerary) SetDescription(v string) { f.Description = strings.TrimSpace(v) }
func (f *Itinerary) SetDuration(v string) { f.Duration = strings.TrimSpace(v) }
func (f *Itinerary) SetDifficulty(v string) { f.Difficulty = strings.TrimSpace(v) }
func (f *Itinerary) SetHighlights(v string) { f.Highlights = SplitList(v) }

func (f *Itinerary) HighlightsText() string {
	return strings.Join(f.Highlights, ", ")
}

func (f *Itinerary) Bind(r *http.Request) error {
	if err := parseRequest(r); err != nil {
		return err
	}
	f.SetTitle(r.FormValue("title"))
	f.SetDescription(r.FormValue("description"))
	f.SetDuration(r.FormValue("duration"))
	f.SetDifficulty(r.FormValue("difficulty"))
	f.SetHighlights(r.FormValue("highlights"))
	return nil
}

func (f *Itinerary) Validate() error {
	return check(f)
}

func (f *Itinerary) Fields() models.ItineraryFields {
	return models.ItineraryFields{
		Title:       f.Title,
		Description: f.Description,
		Duration:    f.Duration,
		Difficulty:  f.Difficulty,
		Highlights:  f.Highlights,
	}
}

func (f *Itinerary) Submit(ctx context.Context) (string, error) {
	if err := f.Validate(); err != nil {
		return f.finish("", err)
	}
	if f.Editing() {
		return f.finish(f.ID, f.svc.Update(ctx, f.ID, f.Fields().Patch()))
	}
	return f.finish(f.svc.Create(ctx, f.Fields()))
}
