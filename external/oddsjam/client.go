package oddsjam

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/fixture"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/odds"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/codec"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/logging"
	"github.com/riskibarqy/sportsdata-ingest/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL     = "https://api.opticodds.com/api/v3"
	defaultTimeout     = 60 * time.Second
	defaultMaxPages    = 50
	apiKeyHeader       = "X-Api-Key"
	maxResponseBytes   = 32 << 20
	fixturesPath       = "/fixtures"
	oddsPath           = "/fixtures/odds"
	historicalOddsPath = "/fixtures/odds/historical"
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxPages   int
	Logger     *logging.Logger
}

// Client talks to the OddsJam (OpticOdds) REST API. Requests are issued one
// at a time and never retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxPages   int
	logger     *logging.Logger
	validate   *validator.Validate
}

var (
	_ fixture.Source = (*Client)(nil)
	_ odds.Source    = (*Client)(nil)
)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxPages:   maxPages,
		logger:     logger.Named("oddsjam"),
		validate:   validator.New(),
	}
}

type pageEnvelope struct {
	Data       []map[string]any `json:"data"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

type dataEnvelope struct {
	Data []map[string]any `json:"data"`
}

// ListFixtures fetches the single page params.Page of the fixture listing.
func (c *Client) ListFixtures(ctx context.Context, params fixture.ListParams) (fixture.Page, error) {
	params = c.withDefaults(params)
	if err := c.validate.StructCtx(ctx, params); err != nil {
		return fixture.Page{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return c.fetchFixturePage(ctx, params, params.Page)
}

// FetchAllFixtures walks the listing from params.Page upward and concatenates
// items in server order. It stops once the provider reports the last page or
// after params.MaxPages requests. On failure the items gathered so far are
// returned with the error.
func (c *Client) FetchAllFixtures(ctx context.Context, params fixture.ListParams) ([]fixture.Record, error) {
	params = c.withDefaults(params)
	if err := c.validate.StructCtx(ctx, params); err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	out := make([]fixture.Record, 0, 64)
	page := params.Page
	for requests := 0; requests < params.MaxPages; requests++ {
		result, err := c.fetchFixturePage(ctx, params, page)
		if err != nil {
			return out, err
		}
		out = append(out, result.Items...)

		c.logger.DebugContext(ctx, "fetched fixtures page",
			"page", result.Page,
			"total_pages", result.TotalPages,
			"items", len(result.Items),
		)
		if result.IsLast() {
			return out, nil
		}
		page++
	}

	c.logger.WarnContext(ctx, "fixture pagination stopped at page cap",
		"sport", params.Sport,
		"max_pages", params.MaxPages,
		"items", len(out),
	)
	return out, nil
}

func (c *Client) GetOdds(ctx context.Context, req odds.Request) ([]odds.Record, error) {
	return c.fetchOdds(ctx, oddsPath, req)
}

func (c *Client) GetHistoricalOdds(ctx context.Context, req odds.Request) ([]odds.Record, error) {
	return c.fetchOdds(ctx, historicalOddsPath, req)
}

func (c *Client) fetchOdds(ctx context.Context, path string, req odds.Request) ([]odds.Record, error) {
	if err := c.validate.StructCtx(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	var envelope dataEnvelope
	if err := c.doJSON(ctx, path, oddsQuery(req), &envelope); err != nil {
		return nil, crerr.Wrapf(err, "fetch odds fixture_id=%s", req.FixtureID)
	}

	out := make([]odds.Record, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		out = append(out, item)
	}
	return out, nil
}

func (c *Client) fetchFixturePage(ctx context.Context, params fixture.ListParams, page int) (fixture.Page, error) {
	var envelope pageEnvelope
	if err := c.doJSON(ctx, fixturesPath, fixtureQuery(params, page), &envelope); err != nil {
		return fixture.Page{}, crerr.Wrapf(err, "fetch fixtures page=%d", page)
	}

	result := fixture.Page{
		Items:      make([]fixture.Record, 0, len(envelope.Data)),
		Page:       envelope.Page,
		TotalPages: envelope.TotalPages,
	}
	if result.Page <= 0 {
		result.Page = page
	}
	for _, item := range envelope.Data {
		result.Items = append(result.Items, item)
	}
	return result, nil
}

func (c *Client) withDefaults(params fixture.ListParams) fixture.ListParams {
	if params.Page == 0 {
		params.Page = 1
	}
	if params.MaxPages == 0 {
		params.MaxPages = c.maxPages
	}
	params.Status = fixture.NormalizeStatus(params.Status)
	return params
}

func fixtureQuery(params fixture.ListParams, page int) url.Values {
	values := url.Values{}
	values.Set("sport", params.Sport)
	setIfPresent(values, "league", params.League)
	setIfPresent(values, "start_date_after", params.StartDateAfter)
	setIfPresent(values, "start_date_before", params.StartDateBefore)
	setIfPresent(values, "status", params.Status)
	setIfPresent(values, "season_week", params.SeasonWeek)
	if params.IsLive != nil {
		values.Set("is_live", strconv.FormatBool(*params.IsLive))
	}
	values.Set("page", strconv.Itoa(page))
	return values
}

func oddsQuery(req odds.Request) url.Values {
	values := url.Values{}
	values.Set("fixture_id", req.FixtureID)
	for _, book := range req.Sportsbooks {
		values.Add("sportsbook", book)
	}
	for _, market := range req.Markets {
		values.Add("market", market)
	}
	if req.IsMain != nil {
		values.Set("is_main", strconv.FormatBool(*req.IsMain))
	}
	return values
}

func setIfPresent(values url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		values.Set(key, value)
	}
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if err != nil {
		return err
	}
	if err := codec.Decode(raw, target); err != nil {
		return fmt.Errorf("%w: decode provider payload: %v", usecase.ErrTransport, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: send request: %s", usecase.ErrTransport, sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", usecase.ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "oddsjam request failed", "url", fullURL, "status", resp.StatusCode)
		return nil, &usecase.ProviderStatusError{
			Provider:   "oddsjam",
			StatusCode: resp.StatusCode,
			Body:       abbreviateBody(raw),
		}
	}
	return raw, nil
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return value
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
