package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisSeenPrefix = "stocksignalbot:seen:"
	redisHistoryKey = "stocksignalbot:history"
	redisSymbolsKey = "stocksignalbot:symbols"

	historyMaxLen = 200
)

// RedisRecorder keeps signal history in Redis. Dedup markers are per-symbol
// keys whose TTL equals the expiry window, so Seen falls back to false the
// moment a signal goes stale.
type RedisRecorder struct {
	client *redis.Client
	expiry time.Duration
}

// NewRedisRecorder connects to Redis and verifies the connection.
func NewRedisRecorder(addr string, db int, expiry time.Duration) (*RedisRecorder, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Printf("[INFO] redis recorder connected: %s", addr)
	return &RedisRecorder{client: client, expiry: expiry}, nil
}

// newRedisRecorderWithClient is used by tests to inject a mock client.
func newRedisRecorderWithClient(client *redis.Client, expiry time.Duration) *RedisRecorder {
	return &RedisRecorder{client: client, expiry: expiry}
}

func (r *RedisRecorder) Seen(symbol string) (bool, error) {
	n, err := r.client.Exists(context.Background(), redisSeenPrefix+symbol).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (r *RedisRecorder) Record(rec *Record) error {
	ctx := context.Background()

	if err := r.client.Set(ctx, redisSeenPrefix+rec.Symbol, rec.ID, r.expiry).Err(); err != nil {
		return fmt.Errorf("redis set seen: %w", err)
	}
	if err := r.client.SAdd(ctx, redisSymbolsKey, rec.Symbol).Err(); err != nil {
		return fmt.Errorf("redis sadd: %w", err)
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := r.client.LPush(ctx, redisHistoryKey, payload).Err(); err != nil {
		return fmt.Errorf("redis lpush: %w", err)
	}
	if err := r.client.LTrim(ctx, redisHistoryKey, 0, historyMaxLen-1).Err(); err != nil {
		return fmt.Errorf("redis ltrim: %w", err)
	}
	return nil
}

func (r *RedisRecorder) Recent(limit int) ([]Record, error) {
	entries, err := r.client.LRange(context.Background(), redisHistoryKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		var rec Record
		if err := json.Unmarshal([]byte(entry), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *RedisRecorder) Clear() error {
	ctx := context.Background()

	symbols, err := r.client.SMembers(ctx, redisSymbolsKey).Result()
	if err != nil {
		return fmt.Errorf("redis smembers: %w", err)
	}
	keys := make([]string, 0, len(symbols)+2)
	for _, sym := range symbols {
		keys = append(keys, redisSeenPrefix+sym)
	}
	keys = append(keys, redisHistoryKey, redisSymbolsKey)
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *RedisRecorder) Close() error {
	log.Println("[INFO] closing redis recorder")
	return r.client.Close()
}
