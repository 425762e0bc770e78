package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"plug-explorer/src/helpers"
	"plug-explorer/src/models"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix = "plug_explorer"
	defaultRedisTTL    = time.Hour
)

// RedisSink mirrors the latest snapshot under one key so other processes can read
// the home page without polling the chain API.
type RedisSink struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// -----------------------------------------------------------------------------

func NewRedisSink(cfg models.MRedisConfig) (*RedisSink, error) {
	if cfg.Addr == "" {
		return nil, helpers.NewConfigurationError("redis addr is required", nil)
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisSink{client: client, ttl: ttl, prefix: prefix}, nil
}

func (s *RedisSink) Name() string { return "redis" }

// Key is where the snapshot lives.
func (s *RedisSink) Key() string {
	return fmt.Sprintf("%s:home", s.prefix)
}

func (s *RedisSink) TTL() time.Duration { return s.ttl }

// -----------------------------------------------------------------------------

func (s *RedisSink) Publish(ctx context.Context, snapshot models.MHomeSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.Key(), payload, s.ttl).Err(); err != nil {
		return helpers.NewNetworkError("redis set", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

// Latest reads the mirrored snapshot back. ok is false when nothing is stored.
func (s *RedisSink) Latest(ctx context.Context) (models.MHomeSnapshot, bool, error) {
	raw, err := s.client.Get(ctx, s.Key()).Bytes()
	if err == redis.Nil {
		return models.MHomeSnapshot{}, false, nil
	}
	if err != nil {
		return models.MHomeSnapshot{}, false, helpers.NewNetworkError("redis get", err)
	}
	var snap models.MHomeSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return models.MHomeSnapshot{}, false, err
	}
	return snap, true, nil
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
