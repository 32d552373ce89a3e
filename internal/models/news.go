package models

import (
	"strings"
	"time"
)

// NewsArticle represents a news post on the site
type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Excerpt     string    `json:"excerpt"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	PublishDate string    `json:"publish_date"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Paragraphs splits the article content on newlines, dropping blank lines.
func (n NewsArticle) Paragraphs() []string {
	var out []string
	for _, line := range strings.Split(n.Content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// NewsFields are the client-supplied fields of a news article.
type NewsFields struct {
	Title       string
	Content     string
	Excerpt     string
	Category    string
	Author      string
	PublishDate string
	Featured    bool
}

// NewsPatch carries the fields to change on update. Nil means unchanged.
type NewsPatch struct {
	Title       *string
	Content     *string
	Excerpt     *string
	Category    *string
	Author      *string
	PublishDate *string
	Featured    *bool
}

func (p NewsPatch) Apply(n *NewsArticle) {
	setString(&n.Title, p.Title)
	setString(&n.Content, p.Content)
	setString(&n.Excerpt, p.Excerpt)
	setString(&n.Category, p.Category)
	setString(&n.Author, p.Author)
	setString(&n.PublishDate, p.PublishDate)
	setBool(&n.Featured, p.Featured)
}

func (f NewsFields) Patch() NewsPatch {
	return NewsPatch{
		Title:       &f.Title,
		Content:     &f.Content,
		Excerpt:     &f.Excerpt,
		Category:    &f.Category,
		Author:      &f.Author,
		PublishDate: &f.PublishDate,
		Featured:    &f.Featured,
	}
}

var NewsCategories = []string{
	"events",
	"announcements",
	"tourism",
	"culture",
}
