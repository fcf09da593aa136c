package sources

import (
	"context"
	"fmt"
	"sort"

	"github.com/feedwire/newsdesk/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisRepository persists the custom source list in redis: a set for
// the URLs plus one key for the active selection.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisRepository(cfg *config.Config) (*RedisRepository, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRepository{
		client: client,
		prefix: cfg.RedisPrefix,
	}, nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) setKey() string    { return r.prefix + "custom-sources" }
func (r *RedisRepository) activeKey() string { return r.prefix + "custom-sources:active" }

func (r *RedisRepository) List(ctx context.Context) ([]string, error) {
	urls, err := r.client.SMembers(ctx, r.setKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers error: %w", err)
	}
	sort.Strings(urls)
	return urls, nil
}

func (r *RedisRepository) Add(ctx context.Context, rawURL string) error {
	if !IsValidHTTPURL(rawURL) {
		return ErrInvalidURL
	}
	if err := r.client.SAdd(ctx, r.setKey(), rawURL).Err(); err != nil {
		return fmt.Errorf("redis sadd error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Remove(ctx context.Context, rawURL string) error {
	removed, err := r.client.SRem(ctx, r.setKey(), rawURL).Result()
	if err != nil {
		return fmt.Errorf("redis srem error: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}

	// A removed source cannot stay active.
	active, err := r.Active(ctx)
	if err == nil && active == rawURL {
		return r.client.Del(ctx, r.activeKey()).Err()
	}
	return nil
}

func (r *RedisRepository) Active(ctx context.Context) (string, error) {
	active, err := r.client.Get(ctx, r.activeKey()).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get error: %w", err)
	}
	return active, nil
}

func (r *RedisRepository) SetActive(ctx context.Context, rawURL string) error {
	if rawURL == "" {
		return r.client.Del(ctx, r.activeKey()).Err()
	}

	member, err := r.client.SIsMember(ctx, r.setKey(), rawURL).Result()
	if err != nil {
		return fmt.Errorf("redis sismember error: %w", err)
	}
	if !member {
		return ErrNotFound
	}
	return r.client.Set(ctx, r.activeKey(), rawURL, 0).Err()
}
