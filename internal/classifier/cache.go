package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "classifier:predictions:"

// CachedClassifier memoizes predictions in Redis keyed by image content.
// Empty results are never cached so a transient backend failure is retried on
// the next upload.
type CachedClassifier struct {
	inner  Classifier
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedClassifier wraps inner with a Redis cache.
func NewCachedClassifier(inner Classifier, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedClassifier {
	return &CachedClassifier{inner: inner, client: client, ttl: ttl, logger: logger}
}

// Classify implements Classifier.
func (c *CachedClassifier) Classify(ctx context.Context, image []byte) []Prediction {
	if len(image) == 0 {
		return nil
	}
	key := CacheKey(image)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []Prediction
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached
		}
		c.logger.Warn("discarding corrupt cached predictions", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("prediction cache read failed", zap.Error(err))
	}

	predictions := c.inner.Classify(ctx, image)
	if len(predictions) == 0 {
		return predictions
	}

	payload, err := json.Marshal(predictions)
	if err != nil {
		return predictions
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("prediction cache write failed", zap.Error(err))
	}
	return predictions
}

// CacheKey derives the cache key for an image.
func CacheKey(image []byte) string {
	sum := sha256.Sum256(image)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
