package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/auth"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/forms"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/services"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/views"
)

const (
	loginPath   = "/admin/login"
	overviewTab = "overview"
)

// adminForm is what every entity form offers the dashboard
type adminForm interface {
	Bind(r *http.Request) error
	Submit(ctx context.Context) (string, error)
	Editing() bool
}

// row is one line of a dashboard tab
type row struct {
	ID       string
	Title    string
	Subtitle string
	ImageURL string
	Featured bool
	Unread   bool
	Updated  time.Time
}

// adminKind is one dashboard tab. form is nil for kinds that cannot be edited.
type adminKind struct {
	Path       string
	Label      string
	Title      string
	Categories []string

	count  func(context.Context) (int, error)
	rows   func(context.Context) ([]row, error)
	find   func(context.Context, string) (row, error)
	form   func(context.Context, string) (adminForm, error)
	remove func(context.Context, string) error
}

func (k *adminKind) Editable() bool { return k.form != nil }

func rowsOf[T any](fetch func(context.Context) ([]T, error), toRow func(T) row) func(context.Context) ([]row, error) {
	return func(ctx context.Context) ([]row, error) {
		items, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]row, 0, len(items))
		for _, item := range items {
			out = append(out, toRow(item))
		}
		return out, nil
	}
}

func findOf[T any](find func(context.Context, string) (*T, error), toRow func(T) row) func(context.Context, string) (row, error) {
	return func(ctx context.Context, id string) (row, error) {
		item, err := find(ctx, id)
		if err != nil {
			return row{}, err
		}
		return toRow(*item), nil
	}
}

// formOf loads the existing entity for id, or builds an empty form when id is empty
func formOf[T any](find func(context.Context, string) (*T, error), build func(*T) adminForm) func(context.Context, string) (adminForm, error) {
	return func(ctx context.Context, id string) (adminForm, error) {
		if id == "" {
			return build(nil), nil
		}
		item, err := find(ctx, id)
		if err != nil {
			return nil, err
		}
		return build(item), nil
	}
}

// adminKinds lists the tabs in display order
func (h *Handler) adminKinds() []*adminKind {
	s := h.svc

	messageRow := func(m models.ContactMessage) row {
		return row{ID: m.ID, Title: m.Subject, Subtitle: fmt.Sprintf("%s <%s>", m.Name, m.Email), Unread: !m.Read, Updated: m.CreatedAt}
	}
	newsRow := func(n models.NewsArticle) row {
		return row{ID: n.ID, Title: n.Title, Subtitle: n.Category, ImageURL: n.ImageURL, Featured: n.Featured, Updated: n.UpdatedAt}
	}
	attractionRow := func(a models.Attraction) row {
		return row{ID: a.ID, Title: a.Name, Subtitle: a.Category, ImageURL: a.ImageURL, Featured: a.Featured, Updated: a.UpdatedAt}
	}
	galleryRow := func(g models.GalleryItem) row {
		return row{ID: g.ID, Title: g.Title, Subtitle: g.Category, ImageURL: g.ImageURL, Updated: g.UpdatedAt}
	}
	culturalRow := func(c models.CulturalItem) row {
		return row{ID: c.ID, Title: c.Title, Subtitle: c.Category, ImageURL: c.ImageURL, Featured: c.IsFeatured, Updated: c.UpdatedAt}
	}
	itineraryRow := func(i models.Itinerary) row {
		return row{ID: i.ID, Title: i.Title, Subtitle: i.Duration, Updated: i.UpdatedAt}
	}

	return []*adminKind{
		{
			Path: "messages", Label: "message", Title: "Messages",
			count:  s.Contact.Count,
			rows:   rowsOf(s.Contact.All, messageRow),
			find:   findOf(s.Contact.Find, messageRow),
			remove: s.Contact.Delete,
		},
		{
			Path: "news", Label: "article", Title: "News", Categories: models.NewsCategories,
			count: s.News.Count,
			rows:  rowsOf(s.News.All, newsRow),
			find:  findOf(s.News.Find, newsRow),
			form: formOf(s.News.Find, func(n *models.NewsArticle) adminForm {
				return forms.NewNews(s.News, n)
			}),
			remove: s.News.Delete,
		},
		{
			Path: "attractions", Label: "attraction", Title: "Attractions", Categories: models.AttractionCategories,
			count: s.Attractions.Count,
			rows:  rowsOf(s.Attractions.All, attractionRow),
			find:  findOf(s.Attractions.Find, attractionRow),
			form: formOf(s.Attractions.Find, func(a *models.Attraction) adminForm {
				return forms.NewAttraction(s.Attractions, a)
			}),
			remove: s.Attractions.Delete,
		},
		{
			Path: "gallery", Label: "photo", Title: "Gallery", Categories: models.GalleryCategories,
			count: s.Gallery.Count,
			rows:  rowsOf(s.Gallery.All, galleryRow),
			find:  findOf(s.Gallery.Find, galleryRow),
			form: formOf(s.Gallery.Find, func(g *models.GalleryItem) adminForm {
				return forms.NewGallery(s.Gallery, g)
			}),
			remove: s.Gallery.Delete,
		},
		{
			Path: "culture", Label: "cultural item", Title: "Culture", Categories: models.CulturalCategories,
			count: s.Cultural.Count,
			rows:  rowsOf(s.Cultural.All, culturalRow),
			find:  findOf(s.Cultural.Find, culturalRow),
			form: formOf(s.Cultural.Find, func(c *models.CulturalItem) adminForm {
				return forms.NewCulture(s.Cultural, c)
			}),
			remove: s.Cultural.Delete,
		},
		{
			Path: "itineraries", Label: "itinerary", Title: "Itineraries",
			count: s.Itineraries.Count,
			rows:  rowsOf(s.Itineraries.All, itineraryRow),
			find:  findOf(s.Itineraries.Find, itineraryRow),
			form: formOf(s.Itineraries.Find, func(i *models.Itinerary) adminForm {
				return forms.NewItinerary(s.Itineraries, i)
			}),
			remove: s.Itineraries.Delete,
		},
	}
}

func (h *Handler) kind(path string) *adminKind {
	for _, k := range h.kinds {
		if k.Path == path {
			return k
		}
	}
	return nil
}

func (h *Handler) adminRoutes(r *mux.Router) {
	gate := h.auth.RequireUser(loginPath)

	r.HandleFunc(loginPath, h.LoginFormHandler).Methods(http.MethodGet)
	r.HandleFunc(loginPath, h.LoginHandler).Methods(http.MethodPost)
	r.HandleFunc("/admin/logout", h.LogoutHandler).Methods(http.MethodPost)
	r.Handle("/admin", gate(http.HandlerFunc(h.DashboardHandler))).Methods(http.MethodGet)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(gate)
	admin.HandleFunc("/", h.DashboardHandler).Methods(http.MethodGet)
	admin.HandleFunc("/messages/{id}", h.MessageHandler).Methods(http.MethodGet)
	admin.HandleFunc("/{kind}/new", h.NewFormHandler).Methods(http.MethodGet)
	admin.HandleFunc("/{kind}", h.SaveHandler).Methods(http.MethodPost)
	admin.HandleFunc("/{kind}/{id}/edit", h.EditFormHandler).Methods(http.MethodGet)
	admin.HandleFunc("/{kind}/{id}", h.SaveHandler).Methods(http.MethodPost)
	admin.HandleFunc("/{kind}/{id}/delete", h.ConfirmDeleteHandler).Methods(http.MethodGet)
	admin.HandleFunc("/{kind}/{id}/delete", h.DeleteHandler).Methods(http.MethodPost)
}

// adminData is the data every dashboard page starts from
func (h *Handler) adminData(r *http.Request, title string) map[string]interface{} {
	q := r.URL.Query()
	return map[string]interface{}{
		"Title":  title,
		"User":   auth.UserFrom(r.Context()),
		"Kinds":  h.kinds,
		"Notice": q.Get("notice"),
		"Alert":  q.Get("alert"),
	}
}

// redirectTab sends the browser back to a tab with a one-time notice
func redirectTab(w http.ResponseWriter, r *http.Request, tab, notice, alert string) {
	q := url.Values{}
	q.Set("tab", tab)
	if notice != "" {
		q.Set("notice", notice)
	}
	if alert != "" {
		q.Set("alert", alert)
	}
	http.Redirect(w, r, "/admin?"+q.Encode(), http.StatusSeeOther)
}

// safeNext only follows redirects back into the dashboard
func safeNext(next string) string {
	if next == "/admin" || strings.HasPrefix(next, "/admin/") || strings.HasPrefix(next, "/admin?") {
		return next
	}
	return "/admin"
}

func (h *Handler) LoginFormHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := h.auth.CurrentUser(auth.TokenFrom(r)); err == nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	h.render(w, "admin-login.html", http.StatusOK, map[string]interface{}{
		"Title": "Admin sign in",
		"Next":  r.URL.Query().Get("next"),
	})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	next := r.PostFormValue("next")

	session, err := h.auth.SignIn(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		status, message := http.StatusUnauthorized, "Invalid email or password."
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Error().Err(err).Msg("Sign-in failed")
			status, message = http.StatusInternalServerError, "Sign-in failed. Please try again."
		}
		h.render(w, "admin-login.html", status, map[string]interface{}{
			"Title": "Admin sign in",
			"Email": email,
			"Next":  next,
			"Error": message,
		})
		return
	}

	auth.SetCookie(w, session, h.secureCookies)
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(r.Context(), auth.TokenFrom(r)); err != nil {
		log.Warn().Err(err).Msg("Sign-out failed")
	}
	auth.ClearCookie(w)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

type kindCount struct {
	Kind  *adminKind
	Count int
}

// overview counts every kind and the unread messages concurrently
func (h *Handler) overview(ctx context.Context) ([]kindCount, int, error) {
	counts := make([]kindCount, len(h.kinds))
	var unread int

	g, gctx := errgroup.WithContext(ctx)
	for i, k := range h.kinds {
		i, k := i, k
		g.Go(func() error {
			n, err := k.count(gctx)
			if err != nil {
				return fmt.Errorf("count %s: %w", k.Path, err)
			}
			counts[i] = kindCount{Kind: k, Count: n}
			return nil
		})
	}
	g.Go(func() error {
		n, err := h.svc.Contact.UnreadCount(gctx)
		if err != nil {
			return fmt.Errorf("count unread messages: %w", err)
		}
		unread = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return counts, unread, nil
}

// DashboardHandler renders the tab named by ?tab=, the overview by default
func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab := r.URL.Query().Get("tab")
	if tab == "" {
		tab = overviewTab
	}

	data := h.adminData(r, "Dashboard")
	data["Tab"] = tab

	if tab == overviewTab {
		counts, unread, err := h.overview(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load dashboard overview")
			data["Error"] = views.Banner("overview")
			h.render(w, "admin.html", http.StatusInternalServerError, data)
			return
		}
		data["Counts"] = counts
		data["Unread"] = unread
		h.render(w, "admin.html", http.StatusOK, data)
		return
	}

	k := h.kind(tab)
	if k == nil {
		h.renderNotFound(w, "Unknown dashboard tab.")
		return
	}
	list := views.NewList[row](strings.ToLower(k.Title), nil).Load(ctx, k.rows)
	data["Kind"] = k
	data["List"] = list
	h.render(w, "admin.html", listStatus(list), data)
}

// MessageHandler shows a contact message and marks it read
func (h *Handler) MessageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	msg, err := h.svc.Contact.Find(ctx, mux.Vars(r)["id"])
	if errors.Is(err, services.ErrNotFound) {
		h.renderNotFound(w, "Message not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to load message")
		redirectTab(w, r, "messages", "", views.Banner("message"))
		return
	}

	data := h.adminData(r, msg.Subject)
	if !msg.Read {
		if err := h.svc.Contact.MarkAsRead(ctx, msg.ID); err != nil {
			data["Alert"] = "Could not mark the message as read: " + services.Describe(err)
		} else {
			msg.Read = true
		}
	}
	data["Message"] = msg
	h.render(w, "admin-message.html", http.StatusOK, data)
}

// editableKind resolves {kind}, answering 404 for unknown or read-only kinds
func (h *Handler) editableKind(w http.ResponseWriter, r *http.Request) *adminKind {
	k := h.kind(mux.Vars(r)["kind"])
	if k == nil || !k.Editable() {
		h.renderNotFound(w, "Unknown content type.")
		return nil
	}
	return k
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, k *adminKind, form adminForm, extra map[string]interface{}) {
	title := "New " + k.Label
	if form.Editing() {
		title = "Edit " + k.Label
	}
	data := h.adminData(r, title)
	data["Kind"] = k
	data["Form"] = form
	for key, v := range extra {
		data[key] = v
	}
	h.render(w, "admin-form.html", status, data)
}

func (h *Handler) NewFormHandler(w http.ResponseWriter, r *http.Request) {
	k := h.editableKind(w, r)
	if k == nil {
		return
	}
	form, err := k.form(r.Context(), "")
	if err != nil {
		redirectTab(w, r, k.Path, "", services.Describe(err))
		return
	}
	h.renderForm(w, r, http.StatusOK, k, form, nil)
}

func (h *Handler) EditFormHandler(w http.ResponseWriter, r *http.Request) {
	k := h.editableKind(w, r)
	if k == nil {
		return
	}
	form, err := k.form(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, services.ErrNotFound) {
		h.renderNotFound(w, label(k.Label)+" not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("kind", k.Path).Msg("Failed to load item for editing")
		redirectTab(w, r, k.Path, "", views.Banner(k.Label))
		return
	}
	h.renderForm(w, r, http.StatusOK, k, form, nil)
}

// SaveHandler creates (no id) or updates (with id) an item
func (h *Handler) SaveHandler(w http.ResponseWriter, r *http.Request) {
	k := h.editableKind(w, r)
	if k == nil {
		return
	}
	ctx := r.Context()

	form, err := k.form(ctx, mux.Vars(r)["id"])
	if errors.Is(err, services.ErrNotFound) {
		h.renderNotFound(w, label(k.Label)+" not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("kind", k.Path).Msg("Failed to load item for saving")
		redirectTab(w, r, k.Path, "", views.Banner(k.Label))
		return
	}

	if err := form.Bind(r); err != nil {
		log.Warn().Err(err).Str("kind", k.Path).Msg("Failed to parse admin form")
		h.renderForm(w, r, http.StatusBadRequest, k, form, map[string]interface{}{
			"Error": "The form could not be read. Please try again.",
		})
		return
	}

	editing := form.Editing()
	_, err = form.Submit(ctx)
	var verr *forms.ValidationError
	switch {
	case err == nil:
		action := "created"
		if editing {
			action = "updated"
		}
		redirectTab(w, r, k.Path, fmt.Sprintf("%s %s.", label(k.Label), action), "")
	case errors.As(err, &verr):
		h.renderForm(w, r, http.StatusBadRequest, k, form, map[string]interface{}{"Errors": verr.Fields})
	case errors.Is(err, services.ErrImageRequired), errors.Is(err, services.ErrNotAnImage):
		h.renderForm(w, r, http.StatusBadRequest, k, form, map[string]interface{}{"Error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		h.renderNotFound(w, label(k.Label)+" not found")
	default:
		h.renderForm(w, r, http.StatusInternalServerError, k, form, map[string]interface{}{
			"Error": services.Describe(err),
		})
	}
}

// ConfirmDeleteHandler is the first step of a delete
func (h *Handler) ConfirmDeleteHandler(w http.ResponseWriter, r *http.Request) {
	k := h.kind(mux.Vars(r)["kind"])
	if k == nil {
		h.renderNotFound(w, "Unknown content type.")
		return
	}
	item, err := k.find(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, services.ErrNotFound) {
		h.renderNotFound(w, label(k.Label)+" not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("kind", k.Path).Msg("Failed to load item for deletion")
		redirectTab(w, r, k.Path, "", views.Banner(k.Label))
		return
	}

	data := h.adminData(r, "Delete "+k.Label)
	data["Kind"] = k
	data["Item"] = item
	h.render(w, "admin-confirm.html", http.StatusOK, data)
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	k := h.kind(mux.Vars(r)["kind"])
	if k == nil {
		h.renderNotFound(w, "Unknown content type.")
		return
	}
	if err := k.remove(r.Context(), mux.Vars(r)["id"]); err != nil {
		redirectTab(w, r, k.Path, "", fmt.Sprintf("Failed to delete %s: %s", k.Label, services.Describe(err)))
		return
	}
	redirectTab(w, r, k.Path, label(k.Label)+" deleted.", "")
}
