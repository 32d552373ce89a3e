package storage

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
)

// Tables bundles one Table per entity on a shared connection pool
type Tables struct {
	Attractions *Table[models.Attraction]
	News        *Table[models.NewsArticle]
	Gallery     *Table[models.GalleryItem]
	Cultural    *Table[models.CulturalItem]
	Itineraries *Table[models.Itinerary]
	Contact     *Table[models.ContactMessage]
}

// NewTables wires every entity table to db
func NewTables(db *sql.DB) *Tables {
	return &Tables{
		Attractions: AttractionTable(db),
		News:        NewsTable(db),
		Gallery:     GalleryTable(db),
		Cultural:    CulturalTable(db),
		Itineraries: ItineraryTable(db),
		Contact:     ContactTable(db),
	}
}

func AttractionTable(db *sql.DB) *Table[models.Attraction] {
	return &Table[models.Attraction]{
		db:   db,
		name: "attractions",
		columns: []string{
			"name", "description", "short_description", "image_url", "location",
			"category", "difficulty", "duration", "accessibility", "highlights",
			"best_time", "featured", "created_at", "updated_at",
		},
		featuredCol: "featured",
		scan: func(row rowScanner) (models.Attraction, error) {
			var a models.Attraction
			err := row.Scan(
				&a.ID, &a.Name, &a.Description, &a.ShortDescription, &a.ImageURL, &a.Location,
				&a.Category, &a.Difficulty, &a.Duration, &a.Accessibility, pq.Array(&a.Highlights),
				&a.BestTime, &a.Featured, &a.CreatedAt, &a.UpdatedAt,
			)
			return a, err
		},
		values: func(a *models.Attraction) []interface{} {
			return []interface{}{
				a.Name, a.Description, a.ShortDescription, a.ImageURL, a.Location,
				a.Category, a.Difficulty, a.Duration, a.Accessibility, pq.Array(nonNil(a.Highlights)),
				a.BestTime, a.Featured, a.CreatedAt, a.UpdatedAt,
			}
		},
	}
}

func NewsTable(db *sql.DB) *Table[models.NewsArticle] {
	return &Table[models.NewsArticle]{
		db:   db,
		name: "news",
		columns: []string{
			"title", "content", "excerpt", "image_url", "category", "author",
			"publish_date", "featured", "created_at", "updated_at",
		},
		featuredCol: "featured",
		scan: func(row rowScanner) (models.NewsArticle, error) {
			var n models.NewsArticle
			err := row.Scan(
				&n.ID, &n.Title, &n.Content, &n.Excerpt, &n.ImageURL, &n.Category, &n.Author,
				&n.PublishDate, &n.Featured, &n.CreatedAt, &n.UpdatedAt,
			)
			return n, err
		},
		values: func(n *models.NewsArticle) []interface{} {
			return []interface{}{
				n.Title, n.Content, n.Excerpt, n.ImageURL, n.Category, n.Author,
				n.PublishDate, n.Featured, n.CreatedAt, n.UpdatedAt,
			}
		},
	}
}

func GalleryTable(db *sql.DB) *Table[models.GalleryItem] {
	return &Table[models.GalleryItem]{
		db:      db,
		name:    "gallery_items",
		columns: []string{"title", "description", "image_url", "category", "created_at", "updated_at"},
		scan: func(row rowScanner) (models.GalleryItem, error) {
			var g models.GalleryItem
			err := row.Scan(&g.ID, &g.Title, &g.Description, &g.ImageURL, &g.Category, &g.CreatedAt, &g.UpdatedAt)
			return g, err
		},
		values: func(g *models.GalleryItem) []interface{} {
			return []interface{}{g.Title, g.Description, g.ImageURL, g.Category, g.CreatedAt, g.UpdatedAt}
		},
	}
}

func CulturalTable(db *sql.DB) *Table[models.CulturalItem] {
	return &Table[models.CulturalItem]{
		db:          db,
		name:        "cultural_items",
		columns:     []string{"title", "description", "image_url", "category", "is_featured", "created_at", "updated_at"},
		featuredCol: "is_featured",
		scan: func(row rowScanner) (models.CulturalItem, error) {
			var c models.CulturalItem
			err := row.Scan(&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.Category, &c.IsFeatured, &c.CreatedAt, &c.UpdatedAt)
			return c, err
		},
		values: func(c *models.CulturalItem) []interface{} {
			return []interface{}{c.Title, c.Description, c.ImageURL, c.Category, c.IsFeatured, c.CreatedAt, c.UpdatedAt}
		},
	}
}

func ItineraryTable(db *sql.DB) *Table[models.Itinerary] {
	return &Table[models.Itinerary]{
		db:      db,
		name:    "itineraries",
		columns: []string{"title", "description", "duration", "difficulty", "highlights", "created_at", "updated_at"},
		scan: func(row rowScanner) (models.Itinerary, error) {
			var it models.Itinerary
			err := row.Scan(&it.ID, &it.Title, &it.Description, &it.Duration, &it.Difficulty,
				pq.Array(&it.Highlights), &it.CreatedAt, &it.UpdatedAt)
			return it, err
		},
		values: func(it *models.Itinerary) []interface{} {
			return []interface{}{it.Title, it.Description, it.Duration, it.Difficulty,
				pq.Array(nonNil(it.Highlights)), it.CreatedAt, it.UpdatedAt}
		},
	}
}

func ContactTable(db *sql.DB) *Table[models.ContactMessage] {
	return &Table[models.ContactMessage]{
		db:      db,
		name:    "contact_messages",
		columns: []string{"name", "email", "subject", "message", "read", "created_at"},
		scan: func(row rowScanner) (models.ContactMessage, error) {
			var m models.ContactMessage
			err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Read, &m.CreatedAt)
			return m, err
		},
		values: func(m *models.ContactMessage) []interface{} {
			return []interface{}{m.Name, m.Email, m.Subject, m.Message, m.Read, m.CreatedAt}
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
