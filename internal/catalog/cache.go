package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wanderdesk/booking-api/internal/models"
)

// CachedLookup serves packages from Redis before falling back to the
// wrapped Finder. A nil client turns it into a pass-through.
type CachedLookup struct {
	next   Finder
	client *redis.Client
	ttl    time.Duration
}

func NewCachedLookup(next Finder, client *redis.Client, ttl time.Duration) *CachedLookup {
	return &CachedLookup{next: next, client: client, ttl: ttl}
}

func cacheKey(id uint) string {
	return fmt.Sprintf("package:%d", id)
}

func (c *CachedLookup) FindPackage(ctx context.Context, id uint) (*models.Package, error) {
	if c.client != nil {
		val, err := c.client.Get(ctx, cacheKey(id)).Bytes()
		if err == nil {
			var pkg models.Package
			if err := json.Unmarshal(val, &pkg); err == nil {
				return &pkg, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("Package cache read failed: %v", err)
		}
	}

	pkg, err := c.next.FindPackage(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.client != nil {
		data, err := json.Marshal(pkg)
		if err != nil {
			log.Printf("Package cache encode failed: %v", err)
			return pkg, nil
		}
		if err := c.client.Set(ctx, cacheKey(id), data, c.ttl).Err(); err != nil {
			log.Printf("Package cache write failed: %v", err)
		}
	}

	return pkg, nil
}

// Invalidate drops a cached package so the next lookup reads the database.
func (c *CachedLookup) Invalidate(ctx context.Context, id uint) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		log.Printf("Package cache invalidate failed: %v", err)
	}
}

type RedisConfig struct {
	Addr     string
	Password string // optional
	DB       int    // optional
}

func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
