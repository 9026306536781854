package apisports

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/football-pipeline/internal/domain/rawdata"
	"github.com/riskibarqy/football-pipeline/internal/platform/logging"
	"github.com/riskibarqy/football-pipeline/internal/platform/resilience"
	"github.com/riskibarqy/football-pipeline/internal/usecase"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	defaultTimeout = 30 * time.Second
	apiKeyHeader   = "x-apisports-key"
	maxBodyBytes   = 32 << 20
)

var errTransient = crerr.New("api-sports transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Now            func() time.Time
}

// Client fetches fixture documents from the api-sports football API.
// Concurrent fetches of the same URL with the same key share one request,
// which runs under the first caller's context.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight[map[string]any]
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := logging.OrNop(cfg.Logger)

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

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("api-sports circuit breaker state changed", "from", from, "to", to)
		}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		now:            now,
	}
}

// FetchFixtures issues one GET for the league/season fixtures and returns the
// decoded body unmodified. Non-2xx answers fail with *usecase.UpstreamHTTPError.
func (c *Client) FetchFixtures(ctx context.Context, leagueID, season int, apiKey string) (rawdata.Payload, error) {
	apiKey = strings.TrimSpace(apiKey)
	if leagueID <= 0 || season <= 0 {
		return rawdata.Payload{}, fmt.Errorf("%w: league and season must be greater than zero", usecase.ErrInvalidInput)
	}
	if apiKey == "" {
		return rawdata.Payload{}, fmt.Errorf("%w: api key is required", usecase.ErrInvalidInput)
	}

	values := url.Values{}
	values.Set("league", strconv.Itoa(leagueID))
	values.Set("season", strconv.Itoa(season))
	fullURL := c.baseURL + "/fixtures?" + values.Encode()

	doc, err, shared := c.flight.Do(flightKey(fullURL, apiKey), func() (map[string]any, error) {
		var out map[string]any
		run := func() error {
			raw, err := c.executeRequest(ctx, fullURL, apiKey)
			if err != nil {
				return err
			}
			out, err = decodeDocument(raw)
			return err
		}

		if !c.circuitEnabled {
			err := run()
			return out, err
		}
		err := c.breaker.Execute(run, isTransient)
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "api-sports circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: fixtures provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return out, err
	})
	if err != nil {
		return rawdata.Payload{}, crerr.Wrapf(err, "fetch fixtures league=%d season=%d", leagueID, season)
	}
	if shared {
		c.logger.DebugContext(ctx, "fixtures fetch shared with concurrent caller", "league_id", leagueID, "season", season)
	}

	if providerErrors := providerErrorsOf(doc); providerErrors != "" {
		c.logger.WarnContext(ctx, "api-sports reported errors in a successful response",
			"league_id", leagueID,
			"season", season,
			"errors", providerErrors,
		)
	}

	return rawdata.Payload{
		LeagueID:  leagueID,
		Season:    season,
		FetchedAt: c.now().UTC(),
		Document:  doc,
	}, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL, apiKey string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set(apiKeyHeader, apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, crerr.Mark(crerr.Wrapf(err, "send request: %s", sanitizeSensitiveText(err.Error(), apiKey)), errTransient)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "read response body"), errTransient)
	}

	c.logger.DebugContext(ctx, "api-sports response",
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstream := &usecase.UpstreamHTTPError{
			StatusCode: resp.StatusCode,
			Body:       sanitizeSensitiveText(abbreviateBody(raw), apiKey),
		}
		if isRetryableStatus(resp.StatusCode) {
			return nil, crerr.Mark(upstream, errTransient)
		}
		return nil, upstream
	}

	return raw, nil
}

// flightKey keeps callers with different keys on separate requests without
// holding the key itself in the flight map.
func flightKey(fullURL, apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:8]) + " " + fullURL
}

func decodeDocument(raw []byte) (map[string]any, error) {
	var doc map[string]any
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, crerr.Wrap(err, "decode provider payload")
	}
	if doc == nil {
		return nil, crerr.New("decode provider payload: document is not a JSON object")
	}
	return doc, nil
}

// providerErrorsOf renders the provider's "errors" member when it is non-empty.
func providerErrorsOf(doc map[string]any) string {
	raw, ok := doc["errors"]
	if !ok || raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case []any:
		if len(v) == 0 {
			return ""
		}
	case map[string]any:
		if len(v) == 0 {
			return ""
		}
	}
	encoded, err := sonic.MarshalString(raw)
	if err != nil {
		return fmt.Sprint(raw)
	}
	return encoded
}

func isTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" || apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, apiKey, "REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
