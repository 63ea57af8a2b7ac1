package entity

import "time"

// Notification is an in-app message telling a user that a document needs
// their attention or has changed state.
type Notification struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	DocumentID     string    `json:"document_id"`
	DocumentNumber string    `json:"document_number"`
	Message        string    `json:"message"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}
