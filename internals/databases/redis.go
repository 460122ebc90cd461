package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stays nil unless REDIS_ADDR is set.
var Redis *redis.Client

func ConnectRedis() {
	addr := getenv("REDIS_ADDR", "")
	if addr == "" {
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("[FATAL] Failed to connect Redis at %s: %v", addr, err)
	}
	Redis = client
	log.Printf("[INFO] Redis connected at %s", addr)
}

func CloseRedis() {
	if Redis != nil {
		_ = Redis.Close()
	}
}
