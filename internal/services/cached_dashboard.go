package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"taskboard/internal/cache"

	"github.com/gofrs/uuid"
)

// SummaryCache is the subset of cache.RedisCache the dashboard needs.
type SummaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

// CachedDashboardService serves summaries from Redis when it can and falls
// back to the wrapped Summarizer on any cache error.
type CachedDashboardService struct {
	next  Summarizer
	cache SummaryCache
	ttl   time.Duration
}

func NewCachedDashboardService(next Summarizer, c SummaryCache, ttl time.Duration) *CachedDashboardService {
	return &CachedDashboardService{next: next, cache: c, ttl: ttl}
}

func dashboardKey(owner uuid.UUID, period Period) string {
	return fmt.Sprintf("dashboard:%s:%d", owner.String(), period)
}

func (s *CachedDashboardService) Summary(ctx context.Context, owner uuid.UUID, period Period) (*DashboardSummary, error) {
	key := dashboardKey(owner, period)

	var cached DashboardSummary
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("[dashboard] cache read failed for %s: %v", key, err)
	}

	summary, err := s.next.Summary(ctx, owner, period)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, summary, s.ttl); err != nil {
		log.Printf("[dashboard] cache write failed for %s: %v", key, err)
	}
	return summary, nil
}

// Invalidate drops every cached period for owner.
func (s *CachedDashboardService) Invalidate(ctx context.Context, owner uuid.UUID) {
	pattern := fmt.Sprintf("dashboard:%s:*", owner.String())
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		log.Printf("[dashboard] cache invalidation failed for %s: %v", owner, err)
	}
}
