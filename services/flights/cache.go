// File: services/flights/cache.go
package flights

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/git-Adi/agenticAI-Travel/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const flightCachePrefix = "flights:search:"

// CachedSearcher stores successful search results in redis for ttl.
// Cache failures are logged and never fail the search.
type CachedSearcher struct {
	next     Searcher
	client   *redis.Client
	ttl      time.Duration
	currency string
	locale   string
	logger   *zap.Logger
}

// NewCachedSearcher caches next. currency and locale fill requests that leave
// them empty, so keys match what the provider is actually asked for.
func NewCachedSearcher(next Searcher, client *redis.Client, ttl time.Duration, currency, locale string, logger *zap.Logger) *CachedSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSearcher{next: next, client: client, ttl: ttl, currency: currency, locale: locale, logger: logger}
}

func (s *CachedSearcher) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	req = req.WithDefaults(s.currency, s.locale)
	key := CacheKey(req)

	data, err := s.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var cached SearchResult
		if jsonErr := json.Unmarshal([]byte(data), &cached); jsonErr == nil {
			s.logger.Debug("Flight cache hit", zap.String("key", key))
			return &cached, nil
		}
		s.logger.Warn("Discarding unreadable flight cache entry", zap.String("key", key))
	case err != redis.Nil:
		s.logger.Warn("Flight cache read failed", zap.String("key", key), zap.Error(err))
	}

	result, err := s.next.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("Failed to encode flight result for cache", zap.Error(err))
		return result, nil
	}
	if err := s.client.Set(ctx, key, b, s.ttl).Err(); err != nil {
		s.logger.Warn("Flight cache write failed", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}

// CacheKey identifies a search by route, dates, currency and locale.
func CacheKey(req SearchRequest) string {
	parts := []string{
		strings.ToUpper(req.Origin),
		strings.ToUpper(req.Destination),
		req.OutboundDate.Format(models.DateLayout),
		req.ReturnDate.Format(models.DateLayout),
		strings.ToUpper(req.Currency),
		strings.ToLower(req.Locale),
	}
	return flightCachePrefix + strings.Join(parts, ":")
}

// RateLimitedSearcher waits on a shared limiter before each search.
type RateLimitedSearcher struct {
	next    Searcher
	limiter *rate.Limiter
}

func NewRateLimitedSearcher(next Searcher, limiter *rate.Limiter) *RateLimitedSearcher {
	return &RateLimitedSearcher{next: next, limiter: limiter}
}

func (s *RateLimitedSearcher) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.next.Search(ctx, req)
}
