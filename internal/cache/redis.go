package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bookmart-next/internal/config"

	"github.com/redis/go-redis/v9"
)

const initPingTimeout = 3 * time.Second

var (
	redisClient *redis.Client
	redisPrefix string
)

// InitRedis 初始化 Redis 客户端并做连通性探测。
// 未启用时静默跳过，探测失败时保持禁用状态并返回错误。
func InitRedis(cfg *config.RedisConfig) error {
	redisClient = nil
	redisPrefix = ""
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "bm"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", addr, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), initPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping %s:%d: %w", addr, port, err)
	}

	redisClient = client
	redisPrefix = prefix
	return nil
}

// Enabled 判断缓存是否启用
func Enabled() bool {
	return redisClient != nil
}

// Client 获取 Redis 客户端，未启用时返回 nil。
func Client() *redis.Client {
	return redisClient
}

// Prefix 返回缓存 key 前缀，未启用时为空串。
func Prefix() string {
	return redisPrefix
}

// GetJSON 获取 JSON 缓存，返回是否命中。
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	val, err := redisClient.Get(ctx, buildKey(key)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return redisClient.Set(ctx, buildKey(key), payload, ttl).Err()
}

// Del 删除缓存
func Del(ctx context.Context, key string) error {
	if !Enabled() {
		return nil
	}
	return redisClient.Del(ctx, buildKey(key)).Err()
}

func buildKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return redisPrefix
	}
	return fmt.Sprintf("%s:%s", redisPrefix, trimmed)
}
