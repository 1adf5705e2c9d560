package apifootball

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the api-football v3 base URL.
	DefaultBaseURL = "https://v3.football.api-sports.io"

	// DefaultTimezone is the timezone sent on date-scoped requests.
	DefaultTimezone = "Europe/Berlin"

	// Client-side request pacing. The coarse per-endpoint spacing lives in
	// the odds merger and the enrichment loader; this limiter is a floor
	// that also covers the unpaced endpoints.
	defaultRateLimit = 5.0 // requests per second
	defaultBurst     = 3
)

// ErrRateLimited is returned when the upstream answers 429. Callers use it
// to pick the longer retry backoff.
var ErrRateLimited = errors.New("apifootball: rate limited")

// Client is an api-football API client.
type Client struct {
	baseURL    string
	apiKey     string
	timezone   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimezone sets the timezone sent on fixture and odds requests.
func WithTimezone(tz string) ClientOption {
	return func(c *Client) {
		c.timezone = tz
	}
}

// WithRateLimit sets custom rate limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a new api-football client. The key is sent as the
// x-apisports-key header on every request.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		apiKey:   apiKey,
		timezone: DefaultTimezone,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchFixtures fetches all fixtures scheduled on the given date
// (YYYY-MM-DD, evaluated in the client timezone).
func (c *Client) FetchFixtures(ctx context.Context, date string) ([]Fixture, error) {
	params := url.Values{}
	params.Set("date", date)
	params.Set("timezone", c.timezone)

	var env envelope[[]Fixture]
	if err := c.get(ctx, "/fixtures", params, &env); err != nil {
		return nil, err
	}
	return env.Response, nil
}

// FetchOddsPage fetches one page of the paged odds result set for a date.
// The returned paging total is authoritative for the loop bound.
func (c *Client) FetchOddsPage(ctx context.Context, date string, page int) (*OddsPage, error) {
	params := url.Values{}
	params.Set("date", date)
	params.Set("timezone", c.timezone)
	params.Set("page", strconv.Itoa(page))

	var env envelope[[]OddsFixture]
	if err := c.get(ctx, "/odds", params, &env); err != nil {
		return nil, err
	}
	return &OddsPage{Paging: env.Paging, Fixtures: env.Response}, nil
}

// FetchPrediction fetches the forecast for a single fixture. A nil
// prediction with a nil error means the provider has none, which is a
// valid outcome, not a failure.
func (c *Client) FetchPrediction(ctx context.Context, fixtureID int) (*Prediction, error) {
	params := url.Values{}
	params.Set("fixture", strconv.Itoa(fixtureID))

	var env envelope[[]Prediction]
	if err := c.get(ctx, "/predictions", params, &env); err != nil {
		return nil, err
	}
	if len(env.Response) == 0 {
		return nil, nil
	}
	return &env.Response[0], nil
}

// FetchLeagueCatalog fetches the whole league/country catalog.
func (c *Client) FetchLeagueCatalog(ctx context.Context) ([]LeagueEntry, error) {
	var env envelope[[]LeagueEntry]
	if err := c.get(ctx, "/leagues", nil, &env); err != nil {
		return nil, err
	}
	return env.Response, nil
}

// get performs a GET request with rate limiting.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	// Build URL
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	// Create request
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-apisports-key", c.apiKey)

	// Execute request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	// Check status
	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s: %w", path, ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api error %d: %s", resp.StatusCode, string(body))
	}

	// Decode response
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
