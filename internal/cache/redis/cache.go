// Package redis caches the public pin list in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dtroode/pinmap-server/internal/model"
)

const (
	// PinsKey is the Redis key holding the JSON encoded pin list.
	PinsKey = "cache:pins:all"
	// GenerationKey is incremented on every invalidation.
	GenerationKey = "cache:pins:generation"
)

// setPinsScript writes the list only while the generation still matches.
// KEYS: generation, pins. ARGV: expected generation, payload, ttl in ms.
var setPinsScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

var _ model.PinCache = (*PinCache)(nil)

type PinCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// cachedPin is the stored representation of model.Pin.
type cachedPin struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	OwnerEmail  string    `json:"owner_email"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Connect opens a client and pings the server.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func NewPinCache(client redis.Cmdable, ttl time.Duration) *PinCache {
	return &PinCache{client: client, ttl: ttl}
}

// GetPins returns the cached list and whether it was present.
func (c *PinCache) GetPins(ctx context.Context) ([]model.Pin, bool, error) {
	data, err := c.client.Get(ctx, PinsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read pin cache: %w", err)
	}

	var cached []cachedPin
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, fmt.Errorf("failed to decode pin cache: %w", err)
	}

	pins := make([]model.Pin, 0, len(cached))
	for _, p := range cached {
		pins = append(pins, model.Pin(p))
	}

	return pins, true, nil
}

// Generation returns the current cache generation, zero if never invalidated.
func (c *PinCache) Generation(ctx context.Context) (int64, error) {
	generation, err := c.client.Get(ctx, GenerationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read pin cache generation: %w", err)
	}
	return generation, nil
}

// SetPins stores pins if generation is still current. A stale write is
// dropped silently.
func (c *PinCache) SetPins(ctx context.Context, generation int64, pins []model.Pin) error {
	cached := make([]cachedPin, 0, len(pins))
	for _, p := range pins {
		cached = append(cached, cachedPin(p))
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to encode pin cache: %w", err)
	}

	keys := []string{GenerationKey, PinsKey}
	if err := setPinsScript.Run(ctx, c.client, keys, generation, data, c.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("failed to write pin cache: %w", err)
	}

	return nil
}

// Invalidate advances the generation before dropping the list, so any fill
// that loaded its data earlier is rejected.
func (c *PinCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, GenerationKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate pin cache: %w", err)
	}
	if err := c.client.Del(ctx, PinsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate pin cache: %w", err)
	}
	return nil
}

var _ model.PinCache = Noop{}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) GetPins(context.Context) ([]model.Pin, bool, error) { return nil, false, nil }
func (Noop) Generation(context.Context) (int64, error)          { return 0, nil }
func (Noop) SetPins(context.Context, int64, []model.Pin) error  { return nil }
func (Noop) Invalidate(context.Context) error                   { return nil }
