package model

import "time"

// Feedback is a user-submitted rating and/or comment.
type Feedback struct {
	ID        string         `json:"id" bson:"_id"`
	Rating    *int           `json:"rating,omitempty" bson:"rating,omitempty"`
	Comment   string         `json:"comment" bson:"comment"`
	Path      string         `json:"path" bson:"path"`
	Context   map[string]any `json:"context" bson:"context"`
	Contact   string         `json:"contact" bson:"contact"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}
