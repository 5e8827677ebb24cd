package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	domrepo "github.com/fslick/fundamentals-yf/internal/domain/repository"
	"github.com/fslick/fundamentals-yf/pkg/cache"
	"github.com/fslick/fundamentals-yf/pkg/logger"
)

const DefaultPriceTTL = 12 * time.Hour

// CachedProvider memoizes price series, FX pairs included, in a cache.Service.
// Concurrent misses for the same symbol share one upstream call, detached
// from the cancellation of whichever caller started it. Summaries and
// statements pass through.
type CachedProvider struct {
	domrepo.DataProvider
	cache cache.Service
	ttl   time.Duration
	group singleflight.Group
	log   *logger.Logger
}

var _ domrepo.DataProvider = (*CachedProvider)(nil)

func NewCachedProvider(p domrepo.DataProvider, c cache.Service, ttl time.Duration, log *logger.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedProvider{DataProvider: p, cache: c, ttl: ttl, log: log}
}

func (p *CachedProvider) FetchPrices(ctx context.Context, symbol string) (*models.PriceSeries, error) {
	key := cache.Key("prices", strings.TrimSpace(symbol))

	var cached models.PriceSeries
	err := p.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		p.log.Warn("price cache read failed", logger.Symbol(symbol), logger.Error(err))
	}

	// The shared fetch outlives any one caller: a cancelled caller returns
	// early while the others still receive the series.
	fetchCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (interface{}, error) {
		s, err := p.DataProvider.FetchPrices(fetchCtx, symbol)
		if err != nil {
			return nil, err
		}
		if err := p.cache.Set(fetchCtx, key, s, p.ttl); err != nil {
			p.log.Warn("price cache write failed", logger.Symbol(symbol), logger.Error(err))
		}
		return s, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			p.log.Debug("price fetch shared", logger.Symbol(symbol))
		}
		return res.Val.(*models.PriceSeries), nil
	}
}
