package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/services"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/views"
)

// apiError is the JSON body of a failed API call
type apiError struct {
	Error string `json:"error"`
}

// writeList answers with items, or the load banner for label when err is set
func writeList[T any](w http.ResponseWriter, label string, items []T, err error) {
	if err != nil {
		log.Error().Err(err).Str("label", label).Msg("API list failed")
		writeJSON(w, http.StatusInternalServerError, apiError{Error: views.Banner(label)})
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}

func writeOne[T any](w http.ResponseWriter, label string, item *T, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, apiError{Error: label + " not found"})
	case err != nil:
		log.Error().Err(err).Str("label", label).Msg("API get failed")
		writeJSON(w, http.StatusInternalServerError, apiError{Error: views.Banner(label)})
	default:
		writeJSON(w, http.StatusOK, item)
	}
}

// queryLimit reads ?limit=, returning 0 when absent or invalid
func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// byCategory filters items on the ?category= value
func byCategory[T any](r *http.Request, items []T, category func(T) string) []T {
	list := views.NewList("", category)
	list.Load(r.Context(), func(context.Context) ([]T, error) { return items, nil })
	return list.FilterByCategory(r.URL.Query().Get("category"))
}

// APIAttractions lists attractions. ?featured=true limits to featured ones.
func (h *Handler) APIAttractions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		items []models.Attraction
		err   error
	)
	if r.URL.Query().Get("featured") == "true" {
		items, err = h.svc.Attractions.Featured(ctx, queryLimit(r))
	} else {
		items, err = h.svc.Attractions.All(ctx)
	}
	if err == nil {
		items = byCategory(r, items, func(a models.Attraction) string { return a.Category })
	}
	writeList(w, "attractions", items, err)
}

func (h *Handler) APIAttraction(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Attractions.Find(r.Context(), mux.Vars(r)["id"])
	writeOne(w, "attraction", item, err)
}

// APINews lists articles. ?latest=true returns the newest ones, ?category= filters on the server.
func (h *Handler) APINews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		items []models.NewsArticle
		err   error
	)
	switch {
	case q.Get("latest") == "true":
		items, err = h.svc.News.Latest(ctx, queryLimit(r))
	case q.Get("featured") == "true":
		items, err = h.svc.News.Featured(ctx, queryLimit(r))
	case q.Get("category") != "":
		items, err = h.svc.News.ByCategory(ctx, q.Get("category"))
	default:
		items, err = h.svc.News.All(ctx)
	}
	writeList(w, "news", items, err)
}

func (h *Handler) APIArticle(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.News.Find(r.Context(), mux.Vars(r)["id"])
	writeOne(w, "article", item, err)
}

func (h *Handler) APICulture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		items []models.CulturalItem
		err   error
	)
	if r.URL.Query().Get("featured") == "true" {
		items, err = h.svc.Cultural.Featured(ctx, queryLimit(r))
	} else {
		items, err = h.svc.Cultural.All(ctx)
	}
	if err == nil {
		items = byCategory(r, items, func(c models.CulturalItem) string { return c.Category })
	}
	writeList(w, "cultural items", items, err)
}

func (h *Handler) APIGallery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		items []models.GalleryItem
		err   error
	)
	switch {
	case q.Get("recent") == "true":
		items, err = h.svc.Gallery.Recent(ctx, queryLimit(r))
	case q.Get("category") != "":
		items, err = h.svc.Gallery.ByCategory(ctx, q.Get("category"))
	default:
		items, err = h.svc.Gallery.All(ctx)
	}
	writeList(w, "gallery", items, err)
}

func (h *Handler) APIItineraries(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Itineraries.All(r.Context())
	writeList(w, "itineraries", items, err)
}
