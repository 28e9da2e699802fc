package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cofounder-radar/internal/config"
	"cofounder-radar/internal/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	eventsCollection   = "competitor_events"
	alertsCollection   = "alerts"
	feedbackCollection = "feedback"
)

// MongoStore keeps one document collection per model. The unique index on
// competitor_events.fingerprint makes InsertEvent an atomic insert-if-absent.
type MongoStore struct {
	client   *mongo.Client
	events   *mongo.Collection
	alerts   *mongo.Collection
	feedback *mongo.Collection
}

// NewMongoStore connects, verifies the server and ensures indexes.
func NewMongoStore(ctx context.Context, cfg config.MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	db := client.Database(cfg.Database)
	s := &MongoStore{
		client:   client,
		events:   db.Collection(eventsCollection),
		alerts:   db.Collection(alertsCollection),
		feedback: db.Collection(feedbackCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "fingerprint", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "publishedAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("mongo indexes %s: %w", eventsCollection, err)
	}
	_, err = s.alerts.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}})
	if err != nil {
		return fmt.Errorf("mongo indexes %s: %w", alertsCollection, err)
	}
	return nil
}

func (s *MongoStore) InsertEvent(ctx context.Context, ev model.CompetitorEvent) (bool, error) {
	now := time.Now().UTC()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ev.CreatedAt, ev.UpdatedAt = now, now
	if _, err := s.events.InsertOne(ctx, ev); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *MongoStore) FindEventByFingerprint(ctx context.Context, fp string) (model.CompetitorEvent, error) {
	var ev model.CompetitorEvent
	err := s.events.FindOne(ctx, bson.M{"fingerprint": fp}).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ev, ErrNotFound
	}
	return ev, err
}

func (s *MongoStore) ListRecentEvents(ctx context.Context, limit int) ([]model.CompetitorEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
		SetLimit(int64(ClampLimit(limit)))
	cur, err := s.events.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	out := []model.CompetitorEvent{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) CreateAlert(ctx context.Context, a model.Alert) (model.Alert, error) {
	now := time.Now().UTC()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt, a.UpdatedAt = now, now
	_, err := s.alerts.InsertOne(ctx, a)
	return a, err
}

func (s *MongoStore) ListAlerts(ctx context.Context, limit int) ([]model.Alert, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(ClampLimit(limit)))
	cur, err := s.alerts.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	out := []model.Alert{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) MarkAlertRead(ctx context.Context, id string) error {
	res, err := s.alerts.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreateFeedback(ctx context.Context, f model.Feedback) (model.Feedback, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = time.Now().UTC()
	_, err := s.feedback.InsertOne(ctx, f)
	return f, err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
