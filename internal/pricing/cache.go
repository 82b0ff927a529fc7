package pricing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jasiri-energy/gasline-backend/pkg/metrics"
	"github.com/jasiri-energy/gasline-backend/pkg/redis"
)

// quoteCache keeps resolved product prices in Redis for a short TTL so hot
// catalog pages do not hammer the price list tables. It degrades to a no-op
// when Redis is not configured; cache failures are swallowed since the
// database remains authoritative.
type quoteCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.PricingMetrics
}

func newQuoteCache(client *redis.Client, ttl time.Duration, m *metrics.PricingMetrics) *quoteCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &quoteCache{client: client, ttl: ttl, metrics: m}
}

func (c *quoteCache) enabled() bool {
	return c != nil && c.client != nil
}

func (c *quoteCache) key(productID uuid.UUID, asOf time.Time, method string) string {
	if method == "" {
		method = "any"
	}
	return c.client.QuoteKey(productID.String(), asOf.UTC().Format("2006-01-02"), method)
}

func (c *quoteCache) get(ctx context.Context, productID uuid.UUID, asOf time.Time, method string) *ProductPrice {
	if !c.enabled() {
		return nil
	}
	raw, err := c.client.Get(ctx, c.key(productID, asOf, method))
	if err != nil {
		if redis.IsMiss(err) {
			c.metrics.IncCache("miss")
		} else {
			c.metrics.IncCache("error")
		}
		return nil
	}
	var price ProductPrice
	if err := json.Unmarshal([]byte(raw), &price); err != nil {
		c.metrics.IncCache("error")
		return nil
	}
	c.metrics.IncCache("hit")
	return &price
}

func (c *quoteCache) put(ctx context.Context, price *ProductPrice, method string) {
	if !c.enabled() || price == nil {
		return
	}
	raw, err := json.Marshal(price)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(price.ProductID, price.AsOf, method), raw, c.ttl)
}
