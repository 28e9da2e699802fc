package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cofounder-radar/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

const (
	eventsZKey   = "competitor:events"
	alertsZKey   = "alerts"
	feedbackZKey = "feedback"
)

func eventKey(fp string) string {
	return fmt.Sprintf("competitor:event:%s", fp)
}

func alertKey(id string) string {
	return fmt.Sprintf("alert:item:%s", id)
}

func feedbackKey(id string) string {
	return fmt.Sprintf("feedback:item:%s", id)
}

// insertIfAbsent writes the document and indexes it only when the key is new.
var insertIfAbsent = redis.NewScript(`
if redis.call('SET', KEYS[1], ARGV[1], 'NX') then
  redis.call('ZADD', KEYS[2], ARGV[2], ARGV[3])
  return 1
end
return 0
`)

// InsertEvent stores ev keyed by fingerprint and indexes it by publishedAt.
func (s *RedisStore) InsertEvent(ctx context.Context, ev model.CompetitorEvent) (bool, error) {
	now := time.Now().UTC()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ev.CreatedAt, ev.UpdatedAt = now, now
	b, err := json.Marshal(ev)
	if err != nil {
		return false, err
	}
	n, err := insertIfAbsent.Run(ctx, s.rdb,
		[]string{eventKey(ev.Fingerprint), eventsZKey},
		b, ev.PublishedAt.UnixMilli(), ev.Fingerprint,
	).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisStore) FindEventByFingerprint(ctx context.Context, fp string) (model.CompetitorEvent, error) {
	var ev model.CompetitorEvent
	b, err := s.rdb.Get(ctx, eventKey(fp)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ev, ErrNotFound
	}
	if err != nil {
		return ev, err
	}
	err = json.Unmarshal(b, &ev)
	return ev, err
}

// ListRecentEvents retrieves the newest events by publishedAt.
func (s *RedisStore) ListRecentEvents(ctx context.Context, limit int) ([]model.CompetitorEvent, error) {
	fps, err := s.rdb.ZRevRange(ctx, eventsZKey, 0, int64(ClampLimit(limit)-1)).Result()
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(fps))
	for i, fp := range fps {
		keys[i] = eventKey(fp)
	}
	out := make([]model.CompetitorEvent, 0, len(keys))
	err = s.mget(ctx, keys, func(b []byte) error {
		var ev model.CompetitorEvent
		if err := json.Unmarshal(b, &ev); err != nil {
			return err
		}
		out = append(out, ev)
		return nil
	})
	return out, err
}

func (s *RedisStore) CreateAlert(ctx context.Context, a model.Alert) (model.Alert, error) {
	now := time.Now().UTC()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt, a.UpdatedAt = now, now
	b, err := json.Marshal(a)
	if err != nil {
		return a, err
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, alertKey(a.ID), b, 0)
		p.ZAdd(ctx, alertsZKey, redis.Z{Score: float64(now.UnixMilli()), Member: a.ID})
		return nil
	})
	return a, err
}

func (s *RedisStore) ListAlerts(ctx context.Context, limit int) ([]model.Alert, error) {
	ids, err := s.rdb.ZRevRange(ctx, alertsZKey, 0, int64(ClampLimit(limit)-1)).Result()
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = alertKey(id)
	}
	out := make([]model.Alert, 0, len(keys))
	err = s.mget(ctx, keys, func(b []byte) error {
		var a model.Alert
		if err := json.Unmarshal(b, &a); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	return out, err
}

// MarkAlertRead flips the read flag; it is a no-op for already read alerts.
func (s *RedisStore) MarkAlertRead(ctx context.Context, id string) error {
	b, err := s.rdb.Get(ctx, alertKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	var a model.Alert
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if a.Read {
		return nil
	}
	a.Read = true
	a.UpdatedAt = time.Now().UTC()
	if b, err = json.Marshal(a); err != nil {
		return err
	}
	return s.rdb.Set(ctx, alertKey(id), b, redis.KeepTTL).Err()
}

func (s *RedisStore) CreateFeedback(ctx context.Context, f model.Feedback) (model.Feedback, error) {
	now := time.Now().UTC()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = now
	b, err := json.Marshal(f)
	if err != nil {
		return f, err
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, feedbackKey(f.ID), b, 0)
		p.ZAdd(ctx, feedbackZKey, redis.Z{Score: float64(now.UnixMilli()), Member: f.ID})
		return nil
	})
	return f, err
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// mget loads keys in order, skipping ones that vanished between index and read.
func (s *RedisStore) mget(ctx context.Context, keys []string, fn func([]byte) error) error {
	if len(keys) == 0 {
		return nil
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return err
	}
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		if err := fn([]byte(str)); err != nil {
			return err
		}
	}
	return nil
}
