package storage

import (
	"log"
	"os"

	"github.com/go-redis/redis/v8"
)

// NewRedis builds the redis client used for the refresh-token store and the
// quote cache. Returns the handle; callers pass it where needed. A nil client
// is a valid "no redis" configuration for callers that tolerate it.
func NewRedis() *redis.Client {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
		log.Println("REDIS_URL not set, using localhost:6379 (development mode)")
	}

	return redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}
