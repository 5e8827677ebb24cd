package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	"github.com/fslick/fundamentals-yf/pkg/cache"
)

type slowProvider struct {
	calls atomic.Int32
	delay time.Duration
}

func (p *slowProvider) FetchPrices(_ context.Context, symbol string) (*models.PriceSeries, error) {
	p.calls.Add(1)
	time.Sleep(p.delay)
	return &models.PriceSeries{
		Symbol:   symbol,
		Currency: "EUR",
		Points:   []models.PricePoint{{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 0.91}},
	}, nil
}

func (p *slowProvider) FetchSummary(context.Context, string) (*models.Summary, error) {
	return &models.Summary{}, nil
}

func (p *slowProvider) FetchStatements(_ context.Context, symbol string, period models.PeriodType) (*models.StatementSeries, error) {
	return &models.StatementSeries{Symbol: symbol, PeriodType: period}, nil
}

func TestCachedProviderCollapsesConcurrentFetches(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()
	upstream := &slowProvider{delay: 50 * time.Millisecond}
	p := NewCachedProvider(upstream, mem, time.Hour, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := p.FetchPrices(context.Background(), models.FXPair("USD", "EUR"))
			assert.NoError(t, err)
			assert.Equal(t, 1, s.Len())
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), upstream.calls.Load())

	s, err := p.FetchPrices(context.Background(), " USDEUR=X ")
	require.NoError(t, err)
	assert.Equal(t, "EUR", s.Currency)
	assert.Equal(t, int32(1), upstream.calls.Load())
}

// gatedProvider blocks each price fetch until release is closed and fails
// the fetch if its context was cancelled by then.
type gatedProvider struct {
	slowProvider
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (p *gatedProvider) FetchPrices(ctx context.Context, symbol string) (*models.PriceSeries, error) {
	p.calls.Add(1)
	p.once.Do(func() { close(p.started) })
	<-p.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.PriceSeries{Symbol: symbol, Currency: "GBp"}, nil
}

func TestCachedProviderSharedFetchSurvivesCallerCancel(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()
	upstream := &gatedProvider{started: make(chan struct{}), release: make(chan struct{})}
	p := NewCachedProvider(upstream, mem, time.Hour, nil)
	pair := models.FXPair("GBP", "GBp")

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := p.FetchPrices(leaderCtx, pair)
		leaderErr <- err
	}()
	<-upstream.started

	type result struct {
		s   *models.PriceSeries
		err error
	}
	follower := make(chan result, 1)
	go func() {
		s, err := p.FetchPrices(context.Background(), pair)
		follower <- result{s, err}
	}()

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	// give the second caller time to join the in-flight fetch
	time.Sleep(20 * time.Millisecond)
	close(upstream.release)

	res := <-follower
	require.NoError(t, res.err)
	assert.Equal(t, "GBp", res.s.Currency)
	assert.Equal(t, int32(1), upstream.calls.Load())

	s, err := p.FetchPrices(context.Background(), pair)
	require.NoError(t, err)
	assert.Equal(t, pair, s.Symbol)
	assert.Equal(t, int32(1), upstream.calls.Load())
}

func TestCachedProviderPassesThroughStatements(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()
	p := NewCachedProvider(&slowProvider{}, mem, 0, nil)

	s, err := p.FetchStatements(context.Background(), "AAPL", models.PeriodAnnual)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodAnnual, s.PeriodType)
}
