package lib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventCacheTTL = 5 * time.Minute

func eventCacheKey(id uint) string {
	return fmt.Sprintf("events::%d", id)
}

// CacheEventJSON stores a serialized event under its cache key. Cache
// failures are logged and swallowed; the database stays the source of
// truth.
func CacheEventJSON(id uint, value any) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	body, err := json.Marshal(value)
	if err != nil {
		log.Printf("Error serializing event %d for cache: %s\n", id, err.Error())
		return
	}
	if err := rd.Set(context.Background(), eventCacheKey(id), string(body), eventCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache event %d: %s\n", id, err.Error())
	}
}

// GetCachedEventJSON returns the cached payload for an event, or nil on a
// miss or any cache error.
func GetCachedEventJSON(id uint) []byte {
	rd := GetRedisClient()
	if rd == nil {
		return nil
	}
	val, err := rd.Get(context.Background(), eventCacheKey(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Error reading event %d from cache: %s\n", id, err.Error())
		}
		return nil
	}
	return []byte(val)
}

// InvalidateEventCache drops the cached copy of an event. Called by every
// operation that mutates the event's seats or counters.
func InvalidateEventCache(id uint) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	if err := rd.Del(context.Background(), eventCacheKey(id)).Err(); err != nil {
		log.Printf("Failed to invalidate cache for event %d: %s\n", id, err.Error())
	}
}
