package redis

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient 新しいRedisクライアントを作成し、接続を確認する。
// REDIS_ADDR未設定の場合はローカルのデフォルトポートを使用する
func NewRedisClient(ctx context.Context) (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redisへの接続に失敗 (%s): %w", addr, err)
	}

	log.Printf("✅ Redis client initialized: %s", addr)
	return client, nil
}
