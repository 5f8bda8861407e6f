package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/service/ratelimit"
	pkgcache "StockCast/pkg/cache"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"
)

const searchURL = "https://query1.finance.yahoo.com/v1/finance/search"

// Client implements BarSource backed by Yahoo Finance daily charts. Responses
// are cached through the layered cache so repeated same-range requests (the
// predict path fetches the training window twice per cold start) do not
// hammer the provider.
type Client struct {
	timeout  time.Duration
	cacheTTL time.Duration
	cache    pkgcache.Service
	limiter  *ratelimit.Limiter
	rps      float64
	http     *xhttp.Client
	l        *applogger.Logger
}

type Option func(*Client)

// WithCache attaches a response cache with the given TTL.
func WithCache(c pkgcache.Service, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// WithTimeout bounds a single provider call.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// WithRateLimit caps provider calls per second.
func WithRateLimit(rps float64) Option {
	return func(cl *Client) {
		if rps > 0 {
			cl.rps = rps
		}
	}
}

// WithLogger injects a structured logger.
func WithLogger(l *applogger.Logger) Option {
	return func(cl *Client) { cl.l = l }
}

// New creates a Yahoo Finance client.
func New(opts ...Option) *Client {
	c := &Client{
		timeout:  10 * time.Second,
		cacheTTL: time.Hour,
		limiter:  ratelimit.New(),
		rps:      5,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = xhttp.NewClient(xhttp.WithTimeout(c.timeout))
	return c
}

var _ domrepo.BarSource = (*Client)(nil)

// FetchBars retrieves daily bars for [start, end]. The provider treats end as
// exclusive, so one day is added, matching the inclusive contract. An empty
// chart is returned as an empty slice, not an error.
func (c *Client) FetchBars(ctx context.Context, ticker string, start, end time.Time) ([]models.Bar, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("yahoo: ticker required")
	}

	cacheKey := pkgcache.GenerateKeyWithParams("bars", ticker,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	if bars, ok := c.cachedBars(ctx, cacheKey); ok {
		return bars, nil
	}

	if err := c.waitForSlot(ctx); err != nil {
		return nil, err
	}

	// The chart iterator has no context support; run it off-path so the
	// caller's deadline and cancellation still hold.
	type result struct {
		bars []models.Bar
		err  error
	}
	done := make(chan result, 1)

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	go func() {
		bars, err := fetchChart(ticker, start, end)
		done <- result{bars: bars, err: err}
	}()

	select {
	case <-fetchCtx.Done():
		return nil, fmt.Errorf("yahoo fetch %s: %w", ticker, fetchCtx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("yahoo fetch %s: %w", ticker, r.err)
		}
		c.storeBars(ctx, cacheKey, r.bars)
		if c.l != nil {
			c.l.Debug("yahoo bars fetched",
				applogger.String("ticker", ticker),
				applogger.Int("bars", len(r.bars)),
			)
		}
		return r.bars, nil
	}
}

func fetchChart(ticker string, start, end time.Time) ([]models.Bar, error) {
	endExcl := end.AddDate(0, 0, 1)
	iter := chart.Get(&chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&endExcl),
		Interval: datetime.OneDay,
	})

	bars := make([]models.Bar, 0, 256)
	for iter.Next() {
		b := iter.Bar()
		open, _ := b.Open.Float64()
		high, _ := b.High.Float64()
		low, _ := b.Low.Float64()
		closeP, _ := b.Close.Float64()
		if closeP <= 0 {
			// provider emits zero-filled placeholder rows on partial days
			continue
		}
		bars = append(bars, models.Bar{
			Ticker: ticker,
			Date:   time.Unix(int64(b.Timestamp), 0).UTC().Truncate(24 * time.Hour),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closeP,
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return bars, nil
}

// Lookup fetches quote-level detail for one ticker.
func (c *Client) Lookup(ctx context.Context, ticker string) (*models.TickerInfo, error) {
	ticker = NormalizeTicker(ticker)
	if err := c.waitForSlot(ctx); err != nil {
		return nil, err
	}

	type result struct {
		eq  *finance.Equity
		err error
	}
	done := make(chan result, 1)
	go func() {
		eq, err := equity.Get(ticker)
		done <- result{eq: eq, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("yahoo lookup %s: %w", ticker, r.err)
		}
		if r.eq == nil {
			return nil, domrepo.ErrNoData
		}
		name := r.eq.LongName
		if name == "" {
			name = r.eq.ShortName
		}
		return &models.TickerInfo{
			Ticker:    ticker,
			Name:      name,
			Exchange:  r.eq.FullExchangeName,
			Price:     r.eq.RegularMarketPrice,
			MarketCap: r.eq.MarketCap,
		}, nil
	}
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		Sector    string `json:"sector"`
		Industry  string `json:"industry"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// Search queries the provider's symbol-search endpoint.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.TickerInfo, error) {
	if err := c.waitForSlot(ctx); err != nil {
		return nil, err
	}

	var sr searchResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    searchURL,
		QueryParams: map[string][]string{
			"q":           {query},
			"quotesCount": {fmt.Sprintf("%d", limit)},
			"newsCount":   {"0"},
		},
	}, &sr)
	if err != nil {
		return nil, fmt.Errorf("yahoo search %q: %w", query, err)
	}

	out := make([]models.TickerInfo, 0, len(sr.Quotes))
	for _, q := range sr.Quotes {
		if q.QuoteType != "" && q.QuoteType != "EQUITY" && q.QuoteType != "ETF" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		out = append(out, models.TickerInfo{
			Ticker:   q.Symbol,
			Name:     name,
			Exchange: q.Exchange,
			Sector:   q.Sector,
			Industry: q.Industry,
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// NormalizeTicker uppercases and trims a user-supplied ticker.
func NormalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

func (c *Client) waitForSlot(ctx context.Context) error {
	for {
		if c.limiter.Allow("yahoo", c.rps, c.rps) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (c *Client) cachedBars(ctx context.Context, key string) ([]models.Bar, bool) {
	if c.cache == nil {
		return nil, false
	}
	var raw string
	if err := c.cache.Get(ctx, key, &raw); err != nil || raw == "" {
		return nil, false
	}
	var bars []models.Bar
	if err := json.Unmarshal([]byte(raw), &bars); err != nil {
		return nil, false
	}
	return bars, true
}

func (c *Client) storeBars(ctx context.Context, key string, bars []models.Bar) {
	if c.cache == nil || len(bars) == 0 {
		return
	}
	raw, err := json.Marshal(bars)
	if err != nil {
		return
	}
	_ = c.cache.Set(ctx, key, string(raw), c.cacheTTL)
}
