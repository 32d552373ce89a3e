package models

import "time"

// Entity kinds, used for storage namespaces, routing keys and admin tabs
const (
	KindAttraction = "attractions"
	KindNews       = "news"
	KindGallery    = "gallery"
	KindCultural   = "cultural"
	KindItinerary  = "itineraries"
	KindContact    = "contact"
)

// ContentChangedEvent is published after every successful content write
type ContentChangedEvent struct {
	Kind      string    `json:"kind"`
	Action    string    `json:"action"` // created, updated, deleted
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ContactSubmittedEvent is published when a visitor sends a contact message
type ContactSubmittedEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
