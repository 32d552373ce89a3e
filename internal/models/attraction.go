package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Location is where an attraction sits on the map.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// Value stores the location as a JSONB document.
func (l Location) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan reads a JSONB document into the location.
func (l *Location) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = Location{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into Location", src)
	}
}

// Attraction represents a place worth visiting in the region
type Attraction struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description"`
	ImageURL         string    `json:"image_url"`
	Location         Location  `json:"location"`
	Category         string    `json:"category"`
	Difficulty       string    `json:"difficulty"`
	Duration         string    `json:"duration"`
	Accessibility    string    `json:"accessibility"`
	Highlights       []string  `json:"highlights"`
	BestTime         string    `json:"best_time"`
	Featured         bool      `json:"featured"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AttractionFields are the client-supplied fields of an attraction.
type AttractionFields struct {
	Name             string
	Description      string
	ShortDescription string
	Location         Location
	Category         string
	Difficulty       string
	Duration         string
	Accessibility    string
	Highlights       []string
	BestTime         string
	Featured         bool
}

// AttractionPatch carries the fields to change on update. Nil means unchanged.
type AttractionPatch struct {
	Name             *string
	Description      *string
	ShortDescription *string
	Location         *Location
	Category         *string
	Difficulty       *string
	Duration         *string
	Accessibility    *string
	Highlights       []string
	BestTime         *string
	Featured         *bool
}

// Apply copies the supplied patch fields onto a.
func (p AttractionPatch) Apply(a *Attraction) {
	setString(&a.Name, p.Name)
	setString(&a.Description, p.Description)
	setString(&a.ShortDescription, p.ShortDescription)
	if p.Location != nil {
		a.Location = *p.Location
	}
	setString(&a.Category, p.Category)
	setString(&a.Difficulty, p.Difficulty)
	setString(&a.Duration, p.Duration)
	setString(&a.Accessibility, p.Accessibility)
	if p.Highlights != nil {
		a.Highlights = append([]string(nil), p.Highlights...)
	}
	setString(&a.BestTime, p.BestTime)
	setBool(&a.Featured, p.Featured)
}

// Patch builds a patch that sets every field to the values in f.
func (f AttractionFields) Patch() AttractionPatch {
	loc := f.Location
	highlights := f.Highlights
	if highlights == nil {
		highlights = []string{}
	}
	return AttractionPatch{
		Name:             &f.Name,
		Description:      &f.Description,
		ShortDescription: &f.ShortDescription,
		Location:         &loc,
		Category:         &f.Category,
		Difficulty:       &f.Difficulty,
		Duration:         &f.Duration,
		Accessibility:    &f.Accessibility,
		Highlights:       highlights,
		BestTime:         &f.BestTime,
		Featured:         &f.Featured,
	}
}

// AttractionCategories lists the categories offered by the admin form
var AttractionCategories = []string{
	"natural",
	"historical",
	"recreational",
	"cultural",
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
