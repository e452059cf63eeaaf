package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"coachdesk/internal/config"
	"coachdesk/internal/domain"
)

// ErrMiss is returned when no cached profile exists for a coach.
var ErrMiss = errors.New("cache miss")

// ProfileCache caches coach scheduling profiles (working hours plus
// overrides) in Redis. Slot listing reads a coach's profile on every
// request; the cache keeps those reads off Mongo. Entries are invalidated
// whenever a coach saves new hours.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// cachedProfile is the stored shape; only the scheduling fields, never the
// whole user document.
type cachedProfile struct {
	WorkingHours       *domain.WorkingHours                `json:"workingHours,omitempty"`
	CustomWorkingHours map[string]domain.CustomDayOverride `json:"customWorkingHours,omitempty"`
}

// NewProfileCache connects a Redis client for profile caching. The
// connection is verified with a short ping so a bad address fails at
// startup, not on the first request.
func NewProfileCache(cfg config.RedisConfig) (*ProfileCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProfileCache{client: client, ttl: ttl}, nil
}

func profileKey(coachID primitive.ObjectID) string {
	return "coach:profile:" + coachID.Hex()
}

// Get returns the cached scheduling profile for a coach, or ErrMiss.
func (c *ProfileCache) Get(ctx context.Context, coachID primitive.ObjectID) (*domain.WorkingHours, map[string]domain.CustomDayOverride, error) {
	raw, err := c.client.Get(ctx, profileKey(coachID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil, ErrMiss
		}
		return nil, nil, err
	}

	var p cachedProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return nil, nil, ErrMiss
	}
	return p.WorkingHours, p.CustomWorkingHours, nil
}

// Set stores a coach's scheduling profile.
func (c *ProfileCache) Set(ctx context.Context, coachID primitive.ObjectID, hours *domain.WorkingHours, overrides map[string]domain.CustomDayOverride) error {
	raw, err := json.Marshal(cachedProfile{WorkingHours: hours, CustomWorkingHours: overrides})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, profileKey(coachID), raw, c.ttl).Err()
}

// Invalidate drops a coach's cached profile. Called after any
// working-hours or override update.
func (c *ProfileCache) Invalidate(ctx context.Context, coachID primitive.ObjectID) error {
	return c.client.Del(ctx, profileKey(coachID)).Err()
}

// Close releases the underlying Redis connection.
func (c *ProfileCache) Close() error {
	return c.client.Close()
}
