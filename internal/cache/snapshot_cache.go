package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"exhibitsurvey/internal/model"
)

// SnapshotCache is the persistence collaborator: one response-set blob per
// survey session, overwritten on every answer and removed on submission.
type SnapshotCache interface {
	Save(ctx context.Context, surveyType, sessionID string, responses model.Responses) error
	Load(ctx context.Context, surveyType, sessionID string) (model.Responses, error)
	Delete(ctx context.Context, surveyType, sessionID string) error

	// Submitted marker, so a finished session stays finished across restarts
	MarkSubmitted(ctx context.Context, surveyType, sessionID string) error
	IsSubmitted(ctx context.Context, surveyType, sessionID string) (bool, error)
}

type snapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewSnapshotCache creates a Redis-backed snapshot cache. Snapshots expire
// after ttl without writes.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, log *zap.Logger) SnapshotCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &snapshotCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Key helpers
func (c *snapshotCache) responsesKey(surveyType, sessionID string) string {
	return fmt.Sprintf("survey:%s:s:%s:responses", surveyType, sessionID)
}

func (c *snapshotCache) submittedKey(surveyType, sessionID string) string {
	return fmt.Sprintf("survey:%s:s:%s:submitted", surveyType, sessionID)
}

func (c *snapshotCache) Save(ctx context.Context, surveyType, sessionID string, responses model.Responses) error {
	data, err := json.Marshal(responses)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.responsesKey(surveyType, sessionID), data, c.ttl).Err()
}

// Load returns nil, nil when no snapshot exists. Entries that no longer
// decode as a response value are dropped; only a blob that is not a JSON
// object is an error.
func (c *snapshotCache) Load(ctx context.Context, surveyType, sessionID string) (model.Responses, error) {
	data, err := c.client.Get(ctx, c.responsesKey(surveyType, sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	responses := make(model.Responses, len(raw))
	for key, msg := range raw {
		var v model.Value
		if err := json.Unmarshal(msg, &v); err != nil {
			c.log.Debug("dropping undecodable snapshot entry",
				zap.String("survey", surveyType), zap.String("session", sessionID),
				zap.String("key", key), zap.Error(err))
			continue
		}
		responses[key] = v
	}
	return responses, nil
}

func (c *snapshotCache) Delete(ctx context.Context, surveyType, sessionID string) error {
	return c.client.Del(ctx, c.responsesKey(surveyType, sessionID)).Err()
}

func (c *snapshotCache) MarkSubmitted(ctx context.Context, surveyType, sessionID string) error {
	return c.client.Set(ctx, c.submittedKey(surveyType, sessionID), time.Now().UTC().Format(time.RFC3339), c.ttl).Err()
}

func (c *snapshotCache) IsSubmitted(ctx context.Context, surveyType, sessionID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.submittedKey(surveyType, sessionID)).Result()
	return n > 0, err
}
