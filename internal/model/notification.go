package model

import "time"

// Notification is an in-app notification
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // application, status_update, new_job, message, system
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	RelatedID string    `json:"relatedId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// SavedJob is a bookmarked job
type SavedJob struct {
	ID      string    `json:"id"`
	Job     Job       `json:"job"`
	SavedAt time.Time `json:"savedAt"`
}
