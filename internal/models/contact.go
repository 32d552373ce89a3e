package models

import "time"

// ContactMessage is a message submitted through the public contact form.
// Only the Read flag changes after creation.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactFields struct {
	Name    string
	Email   string
	Subject string
	Message string
}
