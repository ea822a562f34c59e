// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"notifyhub/config"

	"github.com/go-redis/redis/v8"
)

// DirectoryCacheClient is the dedicated client for device-info caching.
var DirectoryCacheClient *redis.Client

// InitDirectoryCache initializes the Redis client for device-info caching.
func InitDirectoryCache() {
	DirectoryCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDirectoryDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := DirectoryCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Directory Cache): %v", err)
	}
}

// GetDirectoryCacheClient returns the Redis client for device-info caching.
func GetDirectoryCacheClient() *redis.Client {
	if DirectoryCacheClient == nil {
		InitDirectoryCache()
	}
	return DirectoryCacheClient
}
