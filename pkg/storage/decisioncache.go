package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/acuity-health/triage-engine/pkg/common/logger"
	"github.com/acuity-health/triage-engine/pkg/common/models"
	"github.com/redis/go-redis/v9"
)

// DecisionCache is a short-TTL idempotency cache for triage decisions.
// The engine is deterministic, so a cached decision for an identical
// request body is exact, not approximate. Cache errors degrade to a
// miss; the cache must never fail a triage call.
type DecisionCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewDecisionCache(client *redis.Client, prefix string, ttl time.Duration) *DecisionCache {
	return &DecisionCache{client: client, prefix: prefix, ttl: ttl}
}

// Key derives a stable cache key from the canonical JSON encoding of
// the request, ignoring the caller-assigned request ID.
func (c *DecisionCache) Key(req models.TriageRequest) string {
	req.RequestID = ""
	encoded, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(encoded)
	return fmt.Sprintf("%s:%s", c.prefix, hex.EncodeToString(sum[:]))
}

func (c *DecisionCache) Get(ctx context.Context, key string) (models.TriageDecision, bool) {
	if c == nil || c.client == nil || key == "" {
		return models.TriageDecision{}, false
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Warn("Decision cache read failed")
		}
		return models.TriageDecision{}, false
	}

	var decision models.TriageDecision
	if err := json.Unmarshal(payload, &decision); err != nil {
		logger.Log.WithError(err).Warn("Decision cache entry corrupt")
		return models.TriageDecision{}, false
	}
	return decision, true
}

func (c *DecisionCache) Put(ctx context.Context, key string, decision models.TriageDecision) {
	if c == nil || c.client == nil || key == "" {
		return
	}

	payload, err := json.Marshal(decision)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to encode decision for cache")
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Warn("Decision cache write failed")
	}
}
