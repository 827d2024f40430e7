// Package ml provides caching for model scores.
package ml

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/sharp-props/internal/models"
)

// CacheKey identifies a cached score: one player, one statistic, one slate.
type CacheKey struct {
	PlayerID int64
	Stat     models.StatKey
	GameDate string
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%d:%s:%s", k.PlayerID, k.Stat, k.GameDate)
}

// ScoreCache provides in-memory caching for model scores
type ScoreCache struct {
	cache   *cache.Cache
	ttl     time.Duration
	maxSize int

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewScoreCache creates a new score cache
func NewScoreCache(ttl time.Duration, maxSize int) *ScoreCache {
	return &ScoreCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached score
func (sc *ScoreCache) Get(key CacheKey) (float64, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if v, found := sc.cache.Get(key.String()); found {
		if score, ok := v.(float64); ok {
			sc.hitCount++
			sc.updateMetrics()
			return score, true
		}
	}

	sc.missCount++
	sc.updateMetrics()
	return 0, false
}

// Set stores a score in cache
func (sc *ScoreCache) Set(key CacheKey, score float64) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.cache.ItemCount() >= sc.maxSize {
		sc.cache.DeleteExpired()
	}

	sc.cache.Set(key.String(), score, sc.ttl)
}

// Flush removes all cached scores. Called after a training run so stale
// model output is not blended into fresh predictions.
func (sc *ScoreCache) Flush() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache.Flush()
}

// Stats returns hit and miss counts
func (sc *ScoreCache) Stats() (hits, misses uint64) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.hitCount, sc.missCount
}

func (sc *ScoreCache) updateMetrics() {
	total := sc.hitCount + sc.missCount
	if total > 0 {
		ModelCacheHitRatio.Set(float64(sc.hitCount) / float64(total))
	}
}
