package forms

import (
	"context"
	"html"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
)

// strict removes every tag from visitor input
var strict = bluemonday.StrictPolicy()

type ContactWriter interface {
	Create(ctx context.Context, f models.ContactFields) (string, error)
}

// Contact is the public contact form
type Contact struct {
	Callbacks

	Name    string `form:"name" validate:"required,max=100"`
	Email   string `form:"email" validate:"required,email"`
	Subject string `form:"subject" validate:"required,max=200"`
	Message string `form:"message" validate:"required,max=5000"`

	svc ContactWriter
}

func NewContact(svc ContactWriter) *Contact {
	return &Contact{svc: svc}
}

// clean strips markup and unescapes the entities the sanitizer produced
func clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(v)))
}

func (f *Contact) SetName(v string) { f.Name = clean(v) }
func (f *Contact) SetEmail(v string) { f.Email = strings.TrimSpace(v) }
func (f *Contact) SetSubject(v string) { f.Subject = clean(v) }
func (f *Contact) SetMessage(v string) { f.Message = clean(v) }

func (f *Contact) Bind(r *http.Request) error {
	if err := parseRequest(r); err != nil {
		return err
	}
	f.SetName(r.FormValue("name"))
	f.SetEmail(r.FormValue("email"))
	f.SetSubject(r.FormValue("subject"))
	f.SetMessage(r.FormValue("message"))
	return nil
}

func (f *Contact) Validate() error {
	return check(f)
}

// Reset clears the fields after a successful send
func (f *Contact) Reset() {
	f.Name, f.Email, f.Subject, f.Message = "", "", "", ""
}

func (f *Contact) Submit(ctx context.Context) (string, error) {
	if err := f.Validate(); err != nil {
		return f.finish("", err)
	}
	return f.finish(f.svc.Create(ctx, models.ContactFields{
		Name:    f.Name,
		Email:   f.Email,
		Subject: f.Subject,
		Message: f.Message,
	}))
}
