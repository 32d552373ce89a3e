package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/auth"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/forms"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/services"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/views"
)

// Services bundles the entity services the handlers call
type Services struct {
	Attractions *services.AttractionService
	News        *services.NewsService
	Gallery     *services.GalleryService
	Cultural    *services.CulturalService
	Itineraries *services.ItineraryService
	Contact     *services.ContactService
}

// BackendChecker reports the health of the database and media bucket
type BackendChecker interface {
	HealthCheck(ctx context.Context) map[string]error
}

// BrokerChecker reports the health of the event broker
type BrokerChecker interface {
	HealthCheck() error
}

// Options configures NewHandler. Broker may be nil when events are disabled.
type Options struct {
	TemplatesPath        string
	Services             Services
	Auth                 *auth.Provider
	Backend              BackendChecker
	Broker               BrokerChecker
	ContactRatePerMinute int
	TrustProxy           bool
	SecureCookies        bool
}

// Handler contains all HTTP handlers
type Handler struct {
	templates      map[string]*template.Template
	svc            Services
	auth           *auth.Provider
	backend        BackendChecker
	broker         BrokerChecker
	contactLimiter *RateLimiter
	secureCookies  bool
	kinds          []*adminKind
	unsubscribe    func()
}

var pages = []string{
	"home.html",
	"attractions.html",
	"attraction.html",
	"news.html",
	"article.html",
	"culture.html",
	"cultural.html",
	"gallery.html",
	"plan-visit.html",
	"about.html",
	"contact.html",
	"not-found.html",
	"admin-login.html",
	"admin.html",
	"admin-form.html",
	"admin-confirm.html",
	"admin-message.html",
}

// ugc allows the basic formatting editors type into news paragraphs
var ugc = bluemonday.UGCPolicy()

var funcMap = template.FuncMap{
	"paragraphs": func(n models.NewsArticle) []template.HTML {
		out := make([]template.HTML, 0)
		for _, p := range n.Paragraphs() {
			out = append(out, template.HTML(ugc.Sanitize(p)))
		}
		return out
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2 January 2006")
	},
	"fieldError": func(errs map[string]string, field string) string {
		return errs[field]
	},
	"join":  strings.Join,
	"label": label,
}

// label turns a category or kind into a heading
func label(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// NewHandler parses the templates and wires the admin kinds
func NewHandler(opts Options) (*Handler, error) {
	basePath := filepath.Join(opts.TemplatesPath, "base.html")
	baseTmpl, err := template.New("base.html").Funcs(funcMap).ParseFiles(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base template: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, page := range pages {
		tmpl, err := baseTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone base template for %s: %w", page, err)
		}
		if _, err := tmpl.ParseFiles(filepath.Join(opts.TemplatesPath, page)); err != nil {
			return nil, fmt.Errorf("failed to parse page template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	h := &Handler{
		templates:      templates,
		svc:            opts.Services,
		auth:           opts.Auth,
		backend:        opts.Backend,
		broker:         opts.Broker,
		contactLimiter: NewPerMinuteLimiter(opts.ContactRatePerMinute, opts.TrustProxy),
		secureCookies:  opts.SecureCookies,
	}
	h.kinds = h.adminKinds()

	if h.auth != nil {
		h.unsubscribe = h.auth.Subscribe(func(c auth.Change) {
			log.Info().
				Str("event", string(c.Event)).
				Str("user", c.User.Email).
				Str("session", c.SessionID).
				Msg("Admin session changed")
		})
	}
	return h, nil
}

// Close stops the admin activity subscription
func (h *Handler) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
}

// Routes registers every route on r
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/", h.HomeHandler).Methods(http.MethodGet)
	r.HandleFunc("/attractions", h.AttractionsHandler).Methods(http.MethodGet)
	r.HandleFunc("/attractions/{id}", h.AttractionDetailHandler).Methods(http.MethodGet)
	r.HandleFunc("/news", h.NewsHandler).Methods(http.MethodGet)
	r.HandleFunc("/news/{id}", h.ArticleHandler).Methods(http.MethodGet)
	r.HandleFunc("/culture", h.CultureHandler).Methods(http.MethodGet)
	r.HandleFunc("/culture/{id}", h.CulturalDetailHandler).Methods(http.MethodGet)
	r.HandleFunc("/gallery", h.GalleryHandler).Methods(http.MethodGet)
	r.HandleFunc("/plan-visit", h.PlanVisitHandler).Methods(http.MethodGet)
	r.HandleFunc("/about", h.AboutHandler).Methods(http.MethodGet)
	r.HandleFunc("/contact", h.ContactFormHandler).Methods(http.MethodGet)
	r.Handle("/contact", h.contactLimiter.Middleware(http.HandlerFunc(h.ContactSubmitHandler))).Methods(http.MethodPost)
	r.HandleFunc("/health", h.HealthCheckHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/attractions", h.APIAttractions).Methods(http.MethodGet)
	api.HandleFunc("/attractions/{id}", h.APIAttraction).Methods(http.MethodGet)
	api.HandleFunc("/news", h.APINews).Methods(http.MethodGet)
	api.HandleFunc("/news/{id}", h.APIArticle).Methods(http.MethodGet)
	api.HandleFunc("/culture", h.APICulture).Methods(http.MethodGet)
	api.HandleFunc("/gallery", h.APIGallery).Methods(http.MethodGet)
	api.HandleFunc("/itineraries", h.APIItineraries).Methods(http.MethodGet)
	api.HandleFunc("/health", h.HealthCheckHandler).Methods(http.MethodGet)

	h.adminRoutes(r)
	r.NotFoundHandler = http.HandlerFunc(h.NotFoundHandler)
}

// render executes page into a buffer so a template error never leaves a half-written response
func (h *Handler) render(w http.ResponseWriter, page string, status int, data map[string]interface{}) {
	tmpl, ok := h.templates[page]
	if !ok {
		log.Error().Str("page", page).Msg("Template not found")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("Failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug().Err(err).Str("page", page).Msg("Client went away during render")
	}
}

func listStatus[T any](list *views.List[T]) int {
	if list.Error != "" {
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

// renderList renders a list page, filtered by the ?category= query value
func renderList[T any](h *Handler, w http.ResponseWriter, r *http.Request, page, title string, list *views.List[T]) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = views.AllCategories
	}
	h.render(w, page, listStatus(list), map[string]interface{}{
		"Title":      title,
		"List":       list,
		"Items":      list.FilterByCategory(category),
		"Categories": list.Categories(),
		"Category":   category,
	})
}

// renderDetail renders a detail page, or the not-found page
func renderDetail[T any](h *Handler, w http.ResponseWriter, page string, d *views.Detail[T], title func(T) string) {
	if d.NotFound {
		h.renderNotFound(w, label(d.Label)+" not found")
		return
	}
	if d.Error != "" {
		h.render(w, page, http.StatusInternalServerError, map[string]interface{}{
			"Title":  label(d.Label),
			"Detail": d,
		})
		return
	}
	h.render(w, page, http.StatusOK, map[string]interface{}{
		"Title":  title(*d.Item),
		"Detail": d,
		"Item":   d.Item,
	})
}

func (h *Handler) renderNotFound(w http.ResponseWriter, message string) {
	h.render(w, "not-found.html", http.StatusNotFound, map[string]interface{}{
		"Title":   "Not found",
		"Message": message,
	})
}

// NotFoundHandler renders the not-found page for unmatched routes
func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, "The page you are looking for does not exist.")
}

// HomeHandler handles the home page
func (h *Handler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.render(w, "home.html", http.StatusOK, map[string]interface{}{
		"Title":       "Visit Tembaro",
		"Attractions": h.svc.Attractions.ListFeatured(ctx, services.DefaultFeaturedAttractions),
		"News":        h.svc.News.ListLatest(ctx, services.DefaultLatestNews),
		"Culture":     h.svc.Cultural.ListFeatured(ctx, services.DefaultFeaturedCultural),
		"Gallery":     h.svc.Gallery.ListRecent(ctx, services.DefaultRecentGallery),
	})
}

func (h *Handler) AttractionsHandler(w http.ResponseWriter, r *http.Request) {
	list := views.NewList("attractions", func(a models.Attraction) string { return a.Category }).
		Load(r.Context(), h.svc.Attractions.All)
	renderList(h, w, r, "attractions.html", "Attractions", list)
}

func (h *Handler) AttractionDetailHandler(w http.ResponseWriter, r *http.Request) {
	d := views.LoadDetail(r.Context(), "attraction", mux.Vars(r)["id"],
		h.svc.Attractions.Find, h.svc.Attractions.Related, services.DefaultRelated)
	renderDetail(h, w, "attraction.html", d, func(a models.Attraction) string { return a.Name })
}

func (h *Handler) NewsHandler(w http.ResponseWriter, r *http.Request) {
	list := views.NewList("news", func(n models.NewsArticle) string { return n.Category }).
		Load(r.Context(), h.svc.News.All)
	renderList(h, w, r, "news.html", "News", list)
}

func (h *Handler) ArticleHandler(w http.ResponseWriter, r *http.Request) {
	d := views.LoadDetail(r.Context(), "article", mux.Vars(r)["id"],
		h.svc.News.Find, h.svc.News.Related, services.DefaultRelated)
	renderDetail(h, w, "article.html", d, func(n models.NewsArticle) string { return n.Title })
}

func (h *Handler) CultureHandler(w http.ResponseWriter, r *http.Request) {
	list := views.NewList("cultural items", func(c models.CulturalItem) string { return c.Category }).
		Load(r.Context(), h.svc.Cultural.All)
	renderList(h, w, r, "culture.html", "Culture", list)
}

func (h *Handler) CulturalDetailHandler(w http.ResponseWriter, r *http.Request) {
	d := views.LoadDetail(r.Context(), "cultural item", mux.Vars(r)["id"],
		h.svc.Cultural.Find, h.svc.Cultural.Related, services.DefaultRelated)
	renderDetail(h, w, "cultural.html", d, func(c models.CulturalItem) string { return c.Title })
}

func (h *Handler) GalleryHandler(w http.ResponseWriter, r *http.Request) {
	list := views.NewList("gallery", func(g models.GalleryItem) string { return g.Category }).
		Load(r.Context(), h.svc.Gallery.All)
	renderList(h, w, r, "gallery.html", "Gallery", list)
}

// PlanVisitHandler shows the itineraries next to the featured attractions
func (h *Handler) PlanVisitHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list := views.NewList[models.Itinerary]("itineraries", nil).Load(ctx, h.svc.Itineraries.All)
	h.render(w, "plan-visit.html", listStatus(list), map[string]interface{}{
		"Title":       "Plan your visit",
		"List":        list,
		"Items":       list.Data,
		"Attractions": h.svc.Attractions.ListFeatured(ctx, services.DefaultFeaturedAttractions),
	})
}

func (h *Handler) AboutHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, "about.html", http.StatusOK, map[string]interface{}{"Title": "About Tembaro"})
}

func (h *Handler) ContactFormHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, "contact.html", http.StatusOK, map[string]interface{}{
		"Title": "Contact us",
		"Form":  forms.NewContact(nil),
	})
}

// ContactSubmitHandler stores a visitor message. The form keeps its values on failure.
func (h *Handler) ContactSubmitHandler(w http.ResponseWriter, r *http.Request) {
	form := forms.NewContact(h.svc.Contact)
	data := map[string]interface{}{"Title": "Contact us", "Form": form}

	if err := form.Bind(r); err != nil {
		log.Warn().Err(err).Msg("Failed to parse contact form")
		data["Error"] = "The form could not be read. Please try again."
		h.render(w, "contact.html", http.StatusBadRequest, data)
		return
	}

	_, err := form.Submit(r.Context())
	var verr *forms.ValidationError
	switch {
	case errors.As(err, &verr):
		data["Errors"] = verr.Fields
		h.render(w, "contact.html", http.StatusBadRequest, data)
	case err != nil:
		data["Error"] = services.Describe(err)
		h.render(w, "contact.html", http.StatusInternalServerError, data)
	default:
		form.Reset()
		data["Sent"] = true
		h.render(w, "contact.html", http.StatusOK, data)
	}
}

// HealthCheckHandler returns health status
func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if h.backend != nil {
		for name, err := range h.backend.HealthCheck(ctx) {
			checks[name] = "ok"
			if err != nil {
				healthy = false
				checks[name] = err.Error()
			}
		}
	}

	checks["rabbitmq"] = "disabled"
	if h.broker != nil {
		checks["rabbitmq"] = "ok"
		if err := h.broker.HealthCheck(); err != nil {
			healthy = false
			checks["rabbitmq"] = err.Error()
		}
	}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{"status": status, "checks": checks})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
