package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

// memRepo is an in-memory table keyed by id
type memRepo[T any] struct {
	mu   sync.Mutex
	rows map[string]T

	getID     func(T) string
	setID     func(*T, string)
	createdAt func(T) time.Time
	featured  func(T) bool
	category  func(T) string
	imageURL  func(T) string
	setRead   func(*T, bool)
	isRead    func(T) bool

	failList   error
	failWrite  error
	failUpdate error
	inserts    int
	queries    []storage.Query
}

func (r *memRepo[T]) List(_ context.Context, q storage.Query) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	if r.failList != nil {
		return nil, r.failList
	}

	out := make([]T, 0, len(r.rows))
	for _, row := range r.rows {
		if q.Featured && !r.featured(row) {
			continue
		}
		if q.Category != "" && r.category(row) != q.Category {
			continue
		}
		if q.Unread && r.isRead(row) {
			continue
		}
		if q.ExcludeID != "" && r.getID(row) == q.ExcludeID {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return r.createdAt(out[i]).After(r.createdAt(out[j])) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *memRepo[T]) Count(ctx context.Context, q storage.Query) (int, error) {
	q.Limit = 0
	items, err := r.List(ctx, q)
	return len(items), err
}

func (r *memRepo[T]) Get(_ context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList != nil {
		return nil, r.failList
	}
	row, ok := r.rows[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func (r *memRepo[T]) Insert(_ context.Context, item *T) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite != nil {
		return "", r.failWrite
	}
	id := uuid.NewString()
	row := *item
	r.setID(&row, id)
	r.rows[id] = row
	r.inserts++
	return id, nil
}

func (r *memRepo[T]) Update(_ context.Context, id string, item *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite != nil {
		return r.failWrite
	}
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.rows[id]; !ok {
		return storage.ErrNotFound
	}
	row := *item
	r.setID(&row, id)
	r.rows[id] = row
	return nil
}

func (r *memRepo[T]) SetFlag(_ context.Context, id, column string, value bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite != nil {
		return r.failWrite
	}
	row, ok := r.rows[id]
	if !ok {
		return storage.ErrNotFound
	}
	if column != "read" {
		return fmt.Errorf("unknown flag %s", column)
	}
	r.setRead(&row, value)
	r.rows[id] = row
	return nil
}

func (r *memRepo[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite != nil {
		return r.failWrite
	}
	delete(r.rows, id)
	return nil
}

func (r *memRepo[T]) ImageURL(_ context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return "", storage.ErrNotFound
	}
	return r.imageURL(row), nil
}

// seed stores rows directly, bypassing the service
func (r *memRepo[T]) seed(items ...T) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id := r.getID(item)
		if id == "" {
			id = uuid.NewString()
			r.setID(&item, id)
		}
		r.rows[id] = item
		ids = append(ids, id)
	}
	return ids
}

func newAttractionRepo() *memRepo[models.Attraction] {
	return &memRepo[models.Attraction]{
		rows:      map[string]models.Attraction{},
		getID:     func(a models.Attraction) string { return a.ID },
		setID:     func(a *models.Attraction, id string) { a.ID = id },
		createdAt: func(a models.Attraction) time.Time { return a.CreatedAt },
		featured:  func(a models.Attraction) bool { return a.Featured },
		category:  func(a models.Attraction) string { return a.Category },
		imageURL:  func(a models.Attraction) string { return a.ImageURL },
	}
}

func newNewsRepo() *memRepo[models.NewsArticle] {
	return &memRepo[models.NewsArticle]{
		rows:      map[string]models.NewsArticle{},
		getID:     func(n models.NewsArticle) string { return n.ID },
		setID:     func(n *models.NewsArticle, id string) { n.ID = id },
		createdAt: func(n models.NewsArticle) time.Time { return n.CreatedAt },
		featured:  func(n models.NewsArticle) bool { return n.Featured },
		category:  func(n models.NewsArticle) string { return n.Category },
		imageURL:  func(n models.NewsArticle) string { return n.ImageURL },
	}
}

func newGalleryRepo() *memRepo[models.GalleryItem] {
	return &memRepo[models.GalleryItem]{
		rows:      map[string]models.GalleryItem{},
		getID:     func(g models.GalleryItem) string { return g.ID },
		setID:     func(g *models.GalleryItem, id string) { g.ID = id },
		createdAt: func(g models.GalleryItem) time.Time { return g.CreatedAt },
		featured:  func(models.GalleryItem) bool { return false },
		category:  func(g models.GalleryItem) string { return g.Category },
		imageURL:  func(g models.GalleryItem) string { return g.ImageURL },
	}
}

func newCulturalRepo() *memRepo[models.CulturalItem] {
	return &memRepo[models.CulturalItem]{
		rows:      map[string]models.CulturalItem{},
		getID:     func(c models.CulturalItem) string { return c.ID },
		setID:     func(c *models.CulturalItem, id string) { c.ID = id },
		createdAt: func(c models.CulturalItem) time.Time { return c.CreatedAt },
		featured:  func(c models.CulturalItem) bool { return c.IsFeatured },
		category:  func(c models.CulturalItem) string { return c.Category },
		imageURL:  func(c models.CulturalItem) string { return c.ImageURL },
	}
}

func newItineraryRepo() *memRepo[models.Itinerary] {
	return &memRepo[models.Itinerary]{
		rows:      map[string]models.Itinerary{},
		getID:     func(i models.Itinerary) string { return i.ID },
		setID:     func(i *models.Itinerary, id string) { i.ID = id },
		createdAt: func(i models.Itinerary) time.Time { return i.CreatedAt },
	}
}

func newContactRepo() *memRepo[models.ContactMessage] {
	return &memRepo[models.ContactMessage]{
		rows:      map[string]models.ContactMessage{},
		getID:     func(m models.ContactMessage) string { return m.ID },
		setID:     func(m *models.ContactMessage, id string) { m.ID = id },
		createdAt: func(m models.ContactMessage) time.Time { return m.CreatedAt },
		setRead:   func(m *models.ContactMessage, v bool) { m.Read = v },
		isRead:    func(m models.ContactMessage) bool { return m.Read },
	}
}

const testMediaBase = "http://minio.test/tembaro-media/"

// memImages records uploaded objects by public URL
type memImages struct {
	mu         sync.Mutex
	objects    map[string][]byte
	uploads    int
	failUpload error
	failDelete error
}

func newMemImages() *memImages {
	return &memImages{objects: map[string][]byte{}}
}

func (m *memImages) Upload(_ context.Context, namespace, filename, contentType string, reader io.Reader, _ int64) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpload != nil {
		return "", "", m.failUpload
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", "", err
	}
	m.uploads++
	key := storage.ObjectKey(namespace, filename, contentType, time.UnixMilli(int64(1700000000000+m.uploads)))
	url := testMediaBase + key
	m.objects[url] = data
	return key, url, nil
}

func (m *memImages) Delete(_ context.Context, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete != nil {
		return m.failDelete
	}
	delete(m.objects, imageURL)
	return nil
}

func (m *memImages) has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[url]
	return ok
}

type published struct {
	key     string
	payload interface{}
}

type memPublisher struct {
	mu     sync.Mutex
	events []published
	fail   error
}

func (p *memPublisher) Publish(_ context.Context, routingKey string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.events = append(p.events, published{key: routingKey, payload: payload})
	return nil
}

func (p *memPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.key
	}
	return keys
}

// stepClock returns successive times one second apart
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}

func testLogger() (zerolog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return zerolog.New(buf), buf
}

func pngFile(name string) *ImageFile {
	data := []byte("\x89PNG\r\n\x1a\nfake")
	return &ImageFile{
		Name:        name,
		ContentType: "image/png",
		Size:        int64(len(data)),
		Reader:      strings.NewReader(string(data)),
	}
}
