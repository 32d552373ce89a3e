package models

import "time"

// Itinerary is a suggested multi-stop visit plan
type Itinerary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	Difficulty  string    `json:"difficulty"`
	Highlights  []string  `json:"highlights"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ItineraryFields struct {
	Title       string
	Description string
	Duration    string
	Difficulty  string
	Highlights  []string
}

type ItineraryPatch struct {
	Title       *string
	Description *string
	Duration    *string
	Difficulty  *string
	Highlights  []string
}

func (p ItineraryPatch) Apply(it *Itinerary) {
	setString(&it.Title, p.Title)
	setString(&it.Description, p.Description)
	setString(&it.Duration, p.Duration)
	setString(&it.Difficulty, p.Difficulty)
	if p.Highlights != nil {
		it.Highlights = append([]string(nil), p.Highlights...)
	}
}

func (f ItineraryFields) Patch() ItineraryPatch {
	highlights := f.Highlights
	if highlights == nil {
		highlights = []string{}
	}
	return ItineraryPatch{
		Title:       &f.Title,
		Description: &f.Description,
		Duration:    &f.Duration,
		Difficulty:  &f.Difficulty,
		Highlights:  highlights,
	}
}
