package model

import "time"

// AlertType enumerates the kinds of dashboard notifications.
type AlertType string

const (
	AlertFeedback   AlertType = "feedback"
	AlertCompetitor AlertType = "competitor"
	AlertTrend      AlertType = "trend"
)

// Alert is a persisted notification surfaced to the dashboard.
type Alert struct {
	ID        string    `json:"id" bson:"_id"`
	Type      AlertType `json:"type" bson:"type"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	Link      string    `json:"link" bson:"link"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
