package recorder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the redis list holding the summaries
const DefaultKey = "marl:episodes"

// RedisRecorder appends summaries as json to a redis list
type RedisRecorder struct {
	client redis.Cmdable
	key    string
	closer func() error
}

var _ Recorder = &RedisRecorder{}

// NewRedisRecorder connects to the redis server at addr
func NewRedisRecorder(addr, key string) *RedisRecorder {
	cli := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	r := NewRedisRecorderWithClient(cli, key)
	r.closer = cli.Close
	return r
}

// NewRedisRecorderWithClient uses an existing client which is not closed by the recorder
func NewRedisRecorderWithClient(client redis.Cmdable, key string) *RedisRecorder {
	if key == "" {
		key = DefaultKey
	}
	return &RedisRecorder{
		client: client,
		key:    key,
	}
}

// Ping checks that the server is reachable
func (r *RedisRecorder) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRecorder) Record(ctx context.Context, summary *EpisodeSummary) error {
	bs, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("error encoding summary: %w", err)
	}
	return r.client.RPush(ctx, r.key, bs).Err()
}

// Load reads the summaries in [start, stop] of the list, negative indices count from the end
func (r *RedisRecorder) Load(ctx context.Context, start, stop int64) ([]*EpisodeSummary, error) {
	values, err := r.client.LRange(ctx, r.key, start, stop).Result()
	if err != nil {
		return nil, err
	}
	summaries := make([]*EpisodeSummary, 0, len(values))
	for _, v := range values {
		s := &EpisodeSummary{}
		if err := json.Unmarshal([]byte(v), s); err != nil {
			return nil, fmt.Errorf("error decoding summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// Clear deletes the list
func (r *RedisRecorder) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

func (r *RedisRecorder) Close() error {
	if r.closer != nil {
		return r.closer()
	}
	return nil
}
