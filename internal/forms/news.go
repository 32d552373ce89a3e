package forms

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/services"
)

type NewsWriter interface {
	Create(ctx context.Context, f models.NewsFields, img *services.ImageFile) (string, error)
	Update(ctx context.Context, id string, p models.NewsPatch, img *services.ImageFile) error
}

// News is the create/edit form for news articles
type News struct {
	Callbacks

	ID          string
	ImageURL    string
	Title       string `form:"title" validate:"required,max=200"`
	Excerpt     string `form:"excerpt" validate:"required,max=500"`
	Content     string `form:"content" validate:"required"`
	Category    string `form:"category" validate:"required,oneof=events announcements tourism culture"`
	Author      string `form:"author" validate:"required"`
	PublishDate string `form:"publish_date" validate:"required,datetime=2006-01-02"`
	Featured    bool   `form:"featured"`

	Image *services.ImageFile `form:"-" validate:"-"`

	svc NewsWriter
}

// NewNews seeds the form. A new article defaults to today's publish date.
func NewNews(svc NewsWriter, existing *models.NewsArticle) *News {
	if existing == nil {
		return &News{svc: svc, PublishDate: time.Now().Format("2006-01-02")}
	}
	return &News{
		svc:         svc,
		ID:          existing.ID,
		ImageURL:    existing.ImageURL,
		Title:       existing.Title,
		Excerpt:     existing.Excerpt,
		Content:     existing.Content,
		Category:    existing.Category,
		Author:      existing.Author,
		PublishDate: existing.PublishDate,
		Featured:    existing.Featured,
	}
}

func (f *News) Editing() bool { return f.ID != "" }

func (f *News) SetTitle(v string) { f.Title = strings.TrimSpace(v) }
func (f *News) SetExcerpt(v string) { f.Excerpt = strings.TrimSpace(v) }
func (f *News) SetContent(v string) { f.Content = strings.TrimSpace(v) }
func (f *News) SetCategory(v string) { f.Category = strings.TrimSpace(v) }
func (f *News) SetAuthor(v string) { f.Author = strings.TrimSpace(v) }
func (f *News) SetPublishDate(v string) { f.PublishDate = strings.TrimSpace(v) }
func (f *News) SetFeatured(v string) { f.Featured = ParseBool(v) }
func (f *News) SetImage(img *services.ImageFile) { f.Image = img }

func (f *News) Bind(r *http.Request) error {
	if err := parseRequest(r); err != nil {
		return err
	}
	f.SetTitle(r.FormValue("title"))
	f.SetExcerpt(r.FormValue("excerpt"))
	f.SetContent(r.FormValue("content"))
	f.SetCategory(r.FormValue("category"))
	f.SetAuthor(r.FormValue("author"))
	f.SetPublishDate(r.FormValue("publish_date"))
	f.SetFeatured(r.FormValue("featured"))

	img, err := imageFrom(r)
	if err != nil {
		return err
	}
	f.SetImage(img)
	return nil
}

func (f *News) Validate() error {
	if err := check(f); err != nil {
		return err
	}
	if !f.Editing() && f.Image == nil {
		return services.ErrImageRequired
	}
	return nil
}

func (f *News) Fields() models.NewsFields {
	return models.NewsFields{
		Title:       f.Title,
		Content:     f.Content,
		Excerpt:     f.Excerpt,
		Category:    f.Category,
		Author:      f.Author,
		PublishDate: f.PublishDate,
		Featured:    f.Featured,
	}
}

func (f *News) Submit(ctx context.Context) (string, error) {
	if err := f.Validate(); err != nil {
		return f.finish("", err)
	}
	if f.Editing() {
		return f.finish(f.ID, f.svc.Update(ctx, f.ID, f.Fields().Patch(), f.Image))
	}
	return f.finish(f.svc.Create(ctx, f.Fields(), f.Image))
}
