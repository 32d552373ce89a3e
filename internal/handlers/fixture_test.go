package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/auth"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/services"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

const templatesPath = "../../web/templates"

// memTable keeps rows in insertion order
type memTable[T any] struct {
	mu   sync.Mutex
	rows []T

	id       func(*T) *string
	image    func(T) string
	featured func(T) bool
	category func(T) string
	read     func(*T) *bool

	failList error
	failFlag error
}

func (m *memTable[T]) index(id string) int {
	for i := range m.rows {
		if *m.id(&m.rows[i]) == id {
			return i
		}
	}
	return -1
}

func (m *memTable[T]) List(_ context.Context, q storage.Query) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}

	out := []T{}
	for i := range m.rows {
		row := m.rows[i]
		if q.Featured && (m.featured == nil || !m.featured(row)) {
			continue
		}
		if q.Category != "" && (m.category == nil || m.category(row) != q.Category) {
			continue
		}
		if q.Unread && m.read != nil && *m.read(&row) {
			continue
		}
		if q.ExcludeID != "" && *m.id(&row) == q.ExcludeID {
			continue
		}
		out = append(out, row)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memTable[T]) Count(ctx context.Context, q storage.Query) (int, error) {
	q.Limit = 0
	items, err := m.List(ctx, q)
	return len(items), err
}

func (m *memTable[T]) Get(_ context.Context, id string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	i := m.index(id)
	if i < 0 {
		return nil, storage.ErrNotFound
	}
	row := m.rows[i]
	return &row, nil
}

func (m *memTable[T]) Insert(_ context.Context, item *T) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := *item
	id := uuid.NewString()
	*m.id(&row) = id
	m.rows = append(m.rows, row)
	return id, nil
}

func (m *memTable[T]) Update(_ context.Context, id string, item *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return storage.ErrNotFound
	}
	row := *item
	*m.id(&row) = id
	m.rows[i] = row
	return nil
}

func (m *memTable[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(id); i >= 0 {
		m.rows = append(m.rows[:i], m.rows[i+1:]...)
	}
	return nil
}

func (m *memTable[T]) ImageURL(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return "", storage.ErrNotFound
	}
	return m.image(m.rows[i]), nil
}

func (m *memTable[T]) SetFlag(_ context.Context, id, _ string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFlag != nil {
		return m.failFlag
	}
	i := m.index(id)
	if i < 0 {
		return storage.ErrNotFound
	}
	*m.read(&m.rows[i]) = value
	return nil
}

func (m *memTable[T]) seed(items ...T) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id := uuid.NewString()
		*m.id(&item) = id
		m.rows = append(m.rows, item)
		ids = append(ids, id)
	}
	return ids
}

func (m *memTable[T]) all() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T{}, m.rows...)
}

type memImages struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *memImages) Upload(_ context.Context, namespace, filename, contentType string, reader io.Reader, _ int64) (string, string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", "", err
	}
	key := storage.ObjectKey(namespace, filename, contentType, time.Now())
	imageURL := "http://minio.test/tembaro-media/" + key

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[imageURL] = data
	return key, imageURL, nil
}

func (s *memImages) Delete(_ context.Context, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, imageURL)
	return nil
}

func (s *memImages) has(imageURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[imageURL]
	return ok
}

type memUsers struct {
	mu    sync.Mutex
	users map[string][2]string
}

func (u *memUsers) FindByEmail(_ context.Context, email string) (string, string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	rec, ok := u.users[email]
	if !ok {
		return "", "", storage.ErrNotFound
	}
	return rec[0], rec[1], nil
}

func (u *memUsers) Create(_ context.Context, email, hash string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	id := uuid.NewString()
	u.users[email] = [2]string{id, hash}
	return id, nil
}

type fakeBackend struct{ checks map[string]error }

func (b fakeBackend) HealthCheck(context.Context) map[string]error { return b.checks }

const (
	adminEmail    = "admin@tembaro.test"
	adminPassword = "kembata-highlands"
)

type fixture struct {
	router      *mux.Router
	handler     *Handler
	auth        *auth.Provider
	images      *memImages
	attractions *memTable[models.Attraction]
	news        *memTable[models.NewsArticle]
	gallery     *memTable[models.GalleryItem]
	cultural    *memTable[models.CulturalItem]
	itineraries *memTable[models.Itinerary]
	contact     *memTable[models.ContactMessage]
}

func newFixture(t *testing.T, ratePerMinute int) *fixture {
	t.Helper()

	f := &fixture{
		images: &memImages{objects: map[string][]byte{}},
		attractions: &memTable[models.Attraction]{
			id:       func(a *models.Attraction) *string { return &a.ID },
			image:    func(a models.Attraction) string { return a.ImageURL },
			featured: func(a models.Attraction) bool { return a.Featured },
			category: func(a models.Attraction) string { return a.Category },
		},
		news: &memTable[models.NewsArticle]{
			id:       func(n *models.NewsArticle) *string { return &n.ID },
			image:    func(n models.NewsArticle) string { return n.ImageURL },
			featured: func(n models.NewsArticle) bool { return n.Featured },
			category: func(n models.NewsArticle) string { return n.Category },
		},
		gallery: &memTable[models.GalleryItem]{
			id:       func(g *models.GalleryItem) *string { return &g.ID },
			image:    func(g models.GalleryItem) string { return g.ImageURL },
			category: func(g models.GalleryItem) string { return g.Category },
		},
		cultural: &memTable[models.CulturalItem]{
			id:       func(c *models.CulturalItem) *string { return &c.ID },
			image:    func(c models.CulturalItem) string { return c.ImageURL },
			featured: func(c models.CulturalItem) bool { return c.IsFeatured },
			category: func(c models.CulturalItem) string { return c.Category },
		},
		itineraries: &memTable[models.Itinerary]{
			id: func(i *models.Itinerary) *string { return &i.ID },
		},
		contact: &memTable[models.ContactMessage]{
			id:   func(m *models.ContactMessage) *string { return &m.ID },
			read: func(m *models.ContactMessage) *bool { return &m.Read },
		},
	}

	users := &memUsers{users: map[string][2]string{}}
	f.auth = auth.NewProvider(users, "test-secret", time.Hour)
	_, err := f.auth.CreateUser(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)

	h, err := NewHandler(Options{
		TemplatesPath: templatesPath,
		Services: Services{
			Attractions: services.NewAttractionService(f.attractions, f.images),
			News:        services.NewNewsService(f.news, f.images),
			Gallery:     services.NewGalleryService(f.gallery, f.images),
			Cultural:    services.NewCulturalService(f.cultural, f.images),
			Itineraries: services.NewItineraryService(f.itineraries),
			Contact:     services.NewContactService(f.contact),
		},
		Auth:                 f.auth,
		Backend:              fakeBackend{checks: map[string]error{"database": nil, "storage": nil}},
		ContactRatePerMinute: ratePerMinute,
	})
	require.NoError(t, err)
	t.Cleanup(h.Close)

	f.handler = h
	f.router = mux.NewRouter()
	h.Routes(f.router)
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	return f.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// signedIn attaches a fresh admin session to req
func (f *fixture) signedIn(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	session, err := f.auth.SignIn(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: session.Token})
	return req
}

func formRequest(method, path string, values map[string]string) *http.Request {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func multipartRequest(t *testing.T, path string, fields map[string]string, filename string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func wenjelu() models.Attraction {
	return models.Attraction{
		Name:             "Wenjelu Waterfall",
		ShortDescription: "Waterfall",
		Description:      "A waterfall in the hills above Tembaro.",
		ImageURL:         "http://minio.test/tembaro-media/attractions/1.jpg",
		Location:         models.Location{Latitude: 7.1, Longitude: 37.5, Address: "Tembaro"},
		Category:         "natural",
		Difficulty:       "moderate",
		Duration:         "Half day",
		Highlights:       []string{"Scenic views", "Photography"},
		Featured:         true,
	}
}
