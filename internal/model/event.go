package model

import "time"

// CompetitorEvent is a persisted record of a single ingested news item.
type CompetitorEvent struct {
	ID             string    `json:"id" bson:"_id"`
	Source         string    `json:"source" bson:"source"`
	CompetitorName string    `json:"competitorName" bson:"competitorName"`
	Title          string    `json:"title" bson:"title"`
	URL            string    `json:"url" bson:"url"`
	Summary        string    `json:"summary" bson:"summary"`
	PublishedAt    time.Time `json:"publishedAt" bson:"publishedAt"`
	Fingerprint    string    `json:"fingerprint" bson:"fingerprint"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}
