package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/scrimlol/scrim-system/models"
)

const DefaultTTL = 30 * time.Second

// BracketCache keeps the rendered bracket of a room in redis so the
// read path does not hit postgres on every poll. Entries are
// invalidated whenever advancement or a result report touches the room.
type BracketCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBracketCache(client *redis.Client, ttl time.Duration) *BracketCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &BracketCache{client: client, ttl: ttl}
}

func bracketKey(roomID int) string {
	return fmt.Sprintf("bracket:%d", roomID)
}

// Get returns the cached bracket, or nil on a cache miss.
func (c *BracketCache) Get(ctx context.Context, roomID int) (*models.Bracket, error) {
	raw, err := c.client.Get(ctx, bracketKey(roomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read bracket cache for room %d: %w", roomID, err)
	}

	var bracket models.Bracket
	if err := json.Unmarshal(raw, &bracket); err != nil {
		return nil, fmt.Errorf("failed to decode cached bracket for room %d: %w", roomID, err)
	}
	return &bracket, nil
}

func (c *BracketCache) Set(ctx context.Context, roomID int, bracket *models.Bracket) error {
	raw, err := json.Marshal(bracket)
	if err != nil {
		return fmt.Errorf("failed to encode bracket for room %d: %w", roomID, err)
	}
	if err := c.client.Set(ctx, bracketKey(roomID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write bracket cache for room %d: %w", roomID, err)
	}
	return nil
}

func (c *BracketCache) Invalidate(ctx context.Context, roomID int) error {
	if err := c.client.Del(ctx, bracketKey(roomID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate bracket cache for room %d: %w", roomID, err)
	}
	return nil
}
