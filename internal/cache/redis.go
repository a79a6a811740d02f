package cache

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/redis/go-redis/v9"
)

const flashTTL = 10 * time.Minute

// NewRedisClient accepts either a redis:// URL or a bare host:port.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URI: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	log.Println("Redis connected successfully")
	return client, nil
}

type redisFlashStore struct {
	rdb *redis.Client
}

func NewRedisFlashStore(rdb *redis.Client) FlashStore {
	return &redisFlashStore{rdb: rdb}
}

func flashKey(userID string) string {
	return "flash:" + userID
}

func (s *redisFlashStore) Push(ctx context.Context, userID string, n *models.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	key := flashKey(userID)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		pipe.Expire(ctx, key, flashTTL)
		return nil
	})
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

// Pop reads and deletes in one transaction, so two tabs cannot both show it.
func (s *redisFlashStore) Pop(ctx context.Context, userID string) ([]*models.Notification, error) {
	key := flashKey(userID)
	var items *redis.StringSliceCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	var out []*models.Notification
	for _, raw := range items.Val() {
		var n models.Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			slog.Info("dropping malformed notification", "error", err)
			continue
		}
		out = append(out, &n)
	}
	return out, nil
}

func (s *redisFlashStore) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, "once:"+key, 1, ttl).Result()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return ok, nil
}
