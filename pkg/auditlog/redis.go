package auditlog

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink stores audit records as JSON payloads in a Redis list. The
// list is append-only from this process's point of view: records are
// pushed to the tail and read back oldest-first.
type RedisSink struct {
	client *redis.Client
	key    string
}

type Config struct {
	URL string
	Key string
}

func NewRedisSink(cfg Config) (*RedisSink, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = "clinic:audit"
	}

	return &RedisSink{client: client, key: key}, nil
}

func (s *RedisSink) Append(ctx context.Context, payload []byte) error {
	return s.client.RPush(ctx, s.key, payload).Err()
}

func (s *RedisSink) Query(ctx context.Context) ([][]byte, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	records := make([][]byte, len(raw))
	for i, r := range raw {
		records[i] = []byte(r)
	}
	return records, nil
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
