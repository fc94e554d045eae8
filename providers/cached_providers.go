package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"calendario.app/metrics"
	"calendario.app/models"
	"calendario.app/providers/cache"
)

// CachedAstronomyProvider wraps an AstronomyProvider with a TTL cache keyed by
// coordinate and date
type CachedAstronomyProvider struct {
	provider AstronomyProvider
	cache    cache.Cache
	ttl      time.Duration
	metrics  *metrics.CacheMetrics
}

// NewCachedAstronomyProvider creates the caching proxy
func NewCachedAstronomyProvider(provider AstronomyProvider, c cache.Cache, ttl time.Duration) *CachedAstronomyProvider {
	return &CachedAstronomyProvider{
		provider: provider,
		cache:    c,
		ttl:      ttl,
		metrics:  metrics.NewCacheMetrics("astronomy"),
	}
}

// GetSunTimes returns the cached result when present, otherwise delegates
func (p *CachedAstronomyProvider) GetSunTimes(lat, lng float64, date time.Time) (*models.SunTimes, error) {
	ctx := context.Background()
	key := fmt.Sprintf("sun:%.4f:%.4f:%s", lat, lng, date.Format("2006-01-02"))

	if data, found := p.cache.Get(ctx, key); found {
		var cached models.SunTimes
		if err := json.Unmarshal(data, &cached); err == nil {
			p.metrics.RecordHit()
			return &cached, nil
		}
	}
	p.metrics.RecordMiss()

	start := time.Now()
	result, err := p.provider.GetSunTimes(lat, lng, date)
	p.metrics.RecordLatency("fetch", time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		p.cache.Set(ctx, key, data, p.ttl)
	}

	return result, nil
}

// CachedTideProvider wraps a TideProvider with a TTL cache keyed by
// coordinate and day
type CachedTideProvider struct {
	provider TideProvider
	cache    cache.Cache
	ttl      time.Duration
	metrics  *metrics.CacheMetrics
}

// NewCachedTideProvider creates the caching proxy
func NewCachedTideProvider(provider TideProvider, c cache.Cache, ttl time.Duration) *CachedTideProvider {
	return &CachedTideProvider{
		provider: provider,
		cache:    c,
		ttl:      ttl,
		metrics:  metrics.NewCacheMetrics("tides"),
	}
}

// GetTideExtremes returns the cached result when present, otherwise delegates
func (p *CachedTideProvider) GetTideExtremes(lat, lng float64, day time.Time) ([]models.TideExtreme, error) {
	ctx := context.Background()
	key := fmt.Sprintf("tides:%.4f:%.4f:%s", lat, lng, day.Format("2006-01-02"))

	if data, found := p.cache.Get(ctx, key); found {
		var cached []models.TideExtreme
		if err := json.Unmarshal(data, &cached); err == nil {
			p.metrics.RecordHit()
			return cached, nil
		}
	}
	p.metrics.RecordMiss()

	start := time.Now()
	result, err := p.provider.GetTideExtremes(lat, lng, day)
	p.metrics.RecordLatency("fetch", time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		p.cache.Set(ctx, key, data, p.ttl)
	}

	return result, nil
}
