package config

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	Redis *CacheService
)

type CacheService struct {
	Ctx        context.Context
	Connection *redis.Client
}

func NewCacheService() error {
	c := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
		Username: os.Getenv("REDIS_USERNAME"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	ctx := context.Background()

	if err := c.Ping(ctx).Err(); err != nil {
		return err
	}

	Redis = &CacheService{
		Ctx:        ctx,
		Connection: c,
	}

	return nil
}

// GetKey get key
func (c *CacheService) GetKey(key string, src interface{}) error {
	val, err := c.Connection.Get(c.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), src)
}

// SetKey set key
func (c *CacheService) SetKey(key string, value interface{}, expiration time.Duration) error {
	cacheEntry, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.Connection.Set(c.Ctx, key, cacheEntry, expiration).Err()
}

// AcquireLock sets key only when absent. The lock expires after ttl so a crashed holder
// cannot block the next run forever.
func (c *CacheService) AcquireLock(key, owner string, ttl time.Duration) (bool, error) {
	return c.Connection.SetNX(c.Ctx, key, owner, ttl).Result()
}

var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ReleaseLock deletes key only while it is still held by owner. The compare and the delete
// run as one script so an expired lock taken over by another owner is left alone.
func (c *CacheService) ReleaseLock(key, owner string) error {
	return releaseLockScript.Run(c.Ctx, c.Connection, []string{key}, owner).Err()
}
