package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// QuoteCache keeps recent quotes in redis so the bulk listing endpoint does
// not recompute every property on every request. A nil client disables
// caching entirely; every lookup is then a miss.
type QuoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewQuoteCache(rdb *redis.Client, ttl time.Duration) *QuoteCache {
	return &QuoteCache{rdb: rdb, ttl: ttl}
}

func quoteCacheKey(propertyID uint, checkIn, checkOut time.Time) string {
	return fmt.Sprintf("quote:%d:%s:%s", propertyID, DateKey(checkIn), DateKey(checkOut))
}

func (c *QuoteCache) Get(ctx context.Context, propertyID uint, checkIn, checkOut time.Time) (*Quote, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, quoteCacheKey(propertyID, checkIn, checkOut)).Bytes()
	if err != nil {
		return nil, false
	}

	var quote Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, false
	}
	return &quote, true
}

func (c *QuoteCache) Set(ctx context.Context, quote *Quote) {
	if c == nil || c.rdb == nil || quote == nil {
		return
	}

	data, err := json.Marshal(quote)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, quoteCacheKey(quote.PropertyID, quote.CheckIn, quote.CheckOut), data, c.ttl)
}
