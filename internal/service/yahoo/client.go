package yahoo

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	domrepo "github.com/fslick/fundamentals-yf/internal/domain/repository"
	xhttp "github.com/fslick/fundamentals-yf/pkg/http"
	"github.com/fslick/fundamentals-yf/pkg/logger"
)

const (
	DefaultBaseURL      = "https://query2.finance.yahoo.com"
	DefaultHistoryYears = 6

	endpointChart      = "chart"
	endpointSummary    = "quoteSummary"
	endpointTimeseries = "timeseries"
)

// summaryModules are the quoteSummary modules decoded into models.Summary.
var summaryModules = []string{
	"price", "summaryDetail", "defaultKeyStatistics",
	"financialData", "earnings", "earningsTrend",
}

// Option configures Client.
type Option func(*Client)

// CallOptions tune a single call chain without touching the shared client.
type CallOptions struct {
	// Verbose logs every request and provider-side warning at info level.
	Verbose bool
}

// Client implements repository.DataProvider against the Yahoo Finance JSON APIs.
type Client struct {
	http         *xhttp.Client
	baseURL      string
	historyYears int
	cookie       string
	crumb        string
	verbose      bool
	log          *logger.Logger
	metrics      domrepo.Metrics
	now          func() time.Time
}

var _ domrepo.DataProvider = (*Client)(nil)

// NewClient creates a provider client on top of an HTTP client that already
// carries pacing and retry policy.
func NewClient(hc *xhttp.Client, opts ...Option) *Client {
	c := &Client{
		http:         hc,
		baseURL:      DefaultBaseURL,
		historyYears: DefaultHistoryYears,
		log:          logger.Nop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c
}

// WithCall returns a copy of the client using opts for its calls.
func (c *Client) WithCall(opts CallOptions) *Client {
	cp := *c
	cp.verbose = opts.Verbose
	return &cp
}

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

func WithHistoryYears(years int) Option {
	return func(c *Client) {
		if years > 0 {
			c.historyYears = years
		}
	}
}

// WithSession sets the cookie and crumb some quoteSummary deployments require.
func WithSession(cookie, crumb string) Option {
	return func(c *Client) {
		c.cookie = cookie
		c.crumb = crumb
	}
}

// WithVerbose toggles request-level logging.
func WithVerbose(verbose bool) Option {
	return func(c *Client) {
		c.verbose = verbose
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithClock overrides the time source used for history windows.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// get performs one logical request; retries happen inside the HTTP client.
func (c *Client) get(ctx context.Context, endpoint, symbol, path string, query url.Values, dest interface{}) error {
	headers := map[string]string{"Accept": "application/json"}
	if c.cookie != "" {
		headers["Cookie"] = c.cookie
	}

	start := time.Now()
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		Headers:     headers,
		QueryParams: query,
	}, dest)
	took := time.Since(start)

	if c.metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		c.metrics.RecordProviderRequest(endpoint, result)
		c.metrics.RecordLatency("provider_"+endpoint, took.Seconds())
	}

	fields := []logger.Field{
		logger.String("endpoint", endpoint),
		logger.Symbol(symbol),
		logger.Duration("took_ms", took),
	}
	if err != nil {
		c.log.Warn("yahoo request failed", append(fields, logger.Error(err))...)
		return providerError(endpoint, symbol, err)
	}
	c.logf("yahoo request", fields...)
	return nil
}

// logf logs at info when verbose and at debug otherwise.
func (c *Client) logf(msg string, fields ...logger.Field) {
	if c.verbose {
		c.log.Info(msg, fields...)
		return
	}
	c.log.Debug(msg, fields...)
}

// escape keeps the symbol's case: FX pairs such as GBPGBp=X are case-sensitive.
func escape(symbol string) string {
	return url.PathEscape(strings.TrimSpace(symbol))
}

type providerErrorBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// errorDescription extracts the error text from any of the provider's envelopes.
func errorDescription(body []byte) string {
	var env map[string]struct {
		Error *providerErrorBody `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	for _, v := range env {
		if v.Error != nil && v.Error.Description != "" {
			return v.Error.Description
		}
	}
	return ""
}

// historyWindow returns period1/period2 covering the configured years of history.
func (c *Client) historyWindow() url.Values {
	end := c.now().UTC()
	start := end.AddDate(-c.historyYears, 0, 0)
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Unix(), 10))
	return q
}
