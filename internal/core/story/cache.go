// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package story

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by [Cache.Get] when the key is absent.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache is the volatile storage contract used by the catalogue service for
// story page caching and view counter accumulation.
type Cache interface {
	// Get returns the value stored at key, or [ErrCacheMiss].
	Get(context context.Context, key string) (string, error)

	// Set stores value at key with the given TTL.
	Set(context context.Context, key, value string, ttl time.Duration) error

	// Del removes the value stored at key. Missing keys are not an error.
	Del(context context.Context, key string) error

	// Incr atomically increments the integer counter at key.
	Incr(context context.Context, key string) (int64, error)

	// Drain atomically collects and deletes all integer counters under the
	// given key prefix, returning them keyed by the remainder of the key.
	Drain(context context.Context, prefix string) (map[string]int64, error)
}

// # Redis Implementation

// redisCache adapts a go-redis client to the [Cache] contract.
type redisCache struct {
	client *redis.Client
}

// NewRedisCache wraps a connected Redis client as a [Cache].
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (cache *redisCache) Get(context context.Context, key string) (string, error) {
	value, err := cache.client.Get(context, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return value, err
}

func (cache *redisCache) Set(context context.Context, key, value string, ttl time.Duration) error {
	return cache.client.Set(context, key, value, ttl).Err()
}

func (cache *redisCache) Del(context context.Context, key string) error {
	return cache.client.Del(context, key).Err()
}

func (cache *redisCache) Incr(context context.Context, key string) (int64, error) {
	return cache.client.Incr(context, key).Result()
}

// Drain walks the keyspace with SCAN and collects each counter via GETDEL,
// so concurrent increments between scan and read are never lost.
func (cache *redisCache) Drain(context context.Context, prefix string) (map[string]int64, error) {
	counters := make(map[string]int64)

	iterator := cache.client.Scan(context, 0, prefix+"*", 100).Iterator()
	for iterator.Next(context) {
		key := iterator.Val()

		raw, err := cache.client.GetDel(context, key).Result()
		if errors.Is(err, redis.Nil) {
			continue // drained by a concurrent flush
		}
		if err != nil {
			return nil, err
		}

		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue // not a counter; skip
		}

		counters[strings.TrimPrefix(key, prefix)] = value
	}

	if err := iterator.Err(); err != nil {
		return nil, err
	}

	return counters, nil
}
