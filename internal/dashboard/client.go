package dashboard

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Record is one row returned by one endpoint for one administrative unit.
// The field set is open: each endpoint contributes its own columns.
type Record map[string]any

// GroupName returns the unit-name field of the record, if present.
func (r Record) GroupName() (string, bool) {
	v, ok := r["group_name"]
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

// Scope narrows which administrative tier is being fetched.
// Date is required; District and Block progressively narrow the result.
type Scope struct {
	Date     string
	District string
	Block    string
}

type envelope struct {
	Results []Record `json:"results"`
}

type Options struct {
	BaseURL     string
	APIKey      string
	HTTPClient  *http.Client
	Concurrency int
	Logger      *zap.Logger
}

type Option func(*Options)

func WithBaseURL(baseURL string) Option {
	return func(o *Options) { o.BaseURL = baseURL }
}

func WithAPIKey(key string) Option {
	return func(o *Options) { o.APIKey = key }
}

func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) { o.HTTPClient = client }
}

func WithConcurrency(n int) Option {
	return func(o *Options) { o.Concurrency = n }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Client fetches metric records from the NREGS dashboard API.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	concurrency int
	logger      *zap.Logger
}

// NewClient creates a dashboard client using the builder options.
func NewClient(opts ...Option) *Client {
	options := &Options{
		BaseURL:     "https://dashboard.nregsmp.org",
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		Concurrency: 5,
		Logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.Concurrency < 1 {
		options.Concurrency = 1
	}

	return &Client{
		baseURL:     options.BaseURL,
		apiKey:      options.APIKey,
		httpClient:  options.HTTPClient,
		concurrency: options.Concurrency,
		logger:      options.Logger.Named("dashboard"),
	}
}

// Fetch retrieves one endpoint's records for the given scope. Transport
// failures, non-200 responses and undecodable bodies all degrade to an
// empty record list: callers must tolerate partial endpoint failure.
func (c *Client) Fetch(ctx context.Context, path string, scope Scope) []Record {
	query := url.Values{}
	query.Set("date", scope.Date)
	if scope.District != "" {
		query.Set("district", scope.District)
	}
	if scope.Block != "" {
		query.Set("block", scope.Block)
	}

	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Warn("building request failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("endpoint fetch failed",
			zap.String("path", path),
			zap.String("date", scope.Date),
			zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("endpoint returned non-200",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("reading response failed", zap.String("path", path), zap.Error(err))
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Warn("decoding response failed", zap.String("path", path), zap.Error(err))
		return nil
	}

	c.logger.Debug("endpoint fetched",
		zap.String("path", path),
		zap.Int("records", len(env.Results)))

	return env.Results
}

// FetchAll retrieves every endpoint for the given scope. Fetches run with
// bounded parallelism, but results are returned indexed by endpoint
// position so the merge order stays deterministic regardless of arrival
// order. The returned error only reflects context cancellation; individual
// endpoint failures surface as empty result sets.
func (c *Client) FetchAll(ctx context.Context, scope Scope) ([][]Record, error) {
	results := make([][]Record, len(Endpoints))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, path := range Endpoints {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Fetch(gctx, path, scope)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
