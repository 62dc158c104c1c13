package cache

import (
	"context"
	"time"

	"salonbooks/backend/internal/domain"
)

// SummaryCache holds the computed dashboard stock summary. Writers to the
// ledger call Invalidate so the next read recomputes.
type SummaryCache interface {
	Get(ctx context.Context, key string) (*domain.StockSummary, bool, error)
	Set(ctx context.Context, key string, value *domain.StockSummary, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(_ context.Context, _ string) (*domain.StockSummary, bool, error) {
	return nil, false, nil
}

func (NoopSummaryCache) Set(_ context.Context, _ string, _ *domain.StockSummary, _ time.Duration) error {
	return nil
}

func (NoopSummaryCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
