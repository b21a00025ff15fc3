package sportradar

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/reference"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/codec"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/logging"
	"github.com/riskibarqy/sportsdata-ingest/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultBaseURL   = "https://api.sportradar.com/tennis/trial/v3/en"
	defaultTimeout   = 60 * time.Second
	maxResponseBytes = 32 << 20
)

var apiKeyParamRegex = regexp.MustCompile(`api_key=[^&\s"']+`)

type ClientConfig struct {
	HTTPClient *fasthttp.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client reads Sportradar reference documents. The key travels as the
// api_key query parameter and is redacted from every log line and error.
type Client struct {
	httpClient *fasthttp.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	logger     *logging.Logger
}

var _ reference.Source = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "sportsdata-ingest",
			MaxResponseBodySize: maxResponseBytes,
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timeout:    timeout,
		logger:     logger.Named("sportradar"),
	}
}

func (c *Client) GetCompetitions(ctx context.Context) (reference.Document, error) {
	return c.getDocument(ctx, "/competitions.json")
}

func (c *Client) GetSeasons(ctx context.Context) (reference.Document, error) {
	return c.getDocument(ctx, "/seasons.json")
}

func (c *Client) getDocument(ctx context.Context, path string) (reference.Document, error) {
	raw, err := c.executeRequest(ctx, c.baseURL+path+"?"+url.Values{"api_key": {c.apiKey}}.Encode())
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch %s", path)
	}

	var doc reference.Document
	if err := codec.Decode(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", usecase.ErrTransport, path, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s returned a non-object document", usecase.ErrTransport, path)
	}

	c.logger.DebugContext(ctx, "fetched reference document", "path", path, "generated_at", reference.GeneratedAt(doc))
	return doc, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%w: send request: %s", usecase.ErrTransport, sanitizeSensitiveText(err.Error(), c.apiKey))
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	if status < 200 || status >= 300 {
		c.logger.WarnContext(ctx, "sportradar request failed", "url", redactAPIURL(fullURL), "status", status)
		return nil, &usecase.ProviderStatusError{
			Provider:   "sportradar",
			StatusCode: status,
			Body:       sanitizeSensitiveText(abbreviateBody(body), c.apiKey),
		}
	}
	return body, nil
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "api_key=REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("api_key") {
		query.Set("api_key", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
