package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/render"
)

// ViewCache keeps rendered space payloads in redis so repeated reads of an
// unchanged space skip the markdown pipeline. Mutations invalidate the entry;
// the cache is best-effort and never authoritative.
type ViewCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewViewCache(client *redisv9.Client, ttl time.Duration) *ViewCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ViewCache{client: client, ttl: ttl}
}

func (c *ViewCache) Get(ctx context.Context, spaceID uint) (*render.SpaceView, bool, error) {
	raw, err := c.client.Get(ctx, c.key(spaceID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get space view failed: %w", err)
	}

	var view render.SpaceView
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached space view failed: %w", err)
	}
	return &view, true, nil
}

func (c *ViewCache) Set(ctx context.Context, spaceID uint, view render.SpaceView) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal space view failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(spaceID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set space view failed: %w", err)
	}
	return nil
}

func (c *ViewCache) Invalidate(ctx context.Context, spaceID uint) error {
	if err := c.client.Del(ctx, c.key(spaceID)).Err(); err != nil {
		return fmt.Errorf("redis delete space view failed: %w", err)
	}
	return nil
}

func (c *ViewCache) key(spaceID uint) string {
	return fmt.Sprintf("space:view:%d", spaceID)
}
