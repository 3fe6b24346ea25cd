package goalarchive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/goal-archive/internal/domain/ranking"
	"github.com/riskibarqy/goal-archive/internal/platform/logging"
	"github.com/riskibarqy/goal-archive/internal/platform/resilience"
	"github.com/riskibarqy/goal-archive/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultBaseURL      = "http://localhost:90"
	defaultTimeout      = 20 * time.Second
	defaultRetryBackoff = time.Second
	maxBodyBytes        = 6 << 20
)

// User-facing messages. They travel on the error as cockroachdb hints.
const (
	MessageStatus      = "Error when fetching rankings (status %d)."
	MessageDecode      = "Error when reading rankings."
	MessageUnreachable = "Unable to reach the rankings service."
	MessageUnavailable = "Rankings service is temporarily unavailable."
)

var errTransient = crerr.New("goal archive transient failure")

var tracer = otel.Tracer("goal-archive/external/goalarchive")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads award rankings from the Goal Archive API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
}

var _ ranking.Repository = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("goalarchive")

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

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("rankings circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		maxRetries:   maxInt(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger,
		breaker:      breaker,
	}
}

// ListByYear fetches GET {base}/bdor/{year}. A response without a data field yields an empty list.
// Every call issues its own request, and cancelling ctx aborts it.
func (c *Client) ListByYear(ctx context.Context, year int) (ranking.List, error) {
	ctx, span := tracer.Start(ctx, "goalarchive.ListByYear")
	defer span.End()
	span.SetAttributes(attribute.Int("ranking.year", year))

	list, err := c.fetch(ctx, "/bdor/"+strconv.Itoa(year))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch rankings failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("ranking.entries", len(list)))
	return list, nil
}

func (c *Client) fetch(ctx context.Context, path string) (ranking.List, error) {
	var raw []byte
	err := c.breaker.Execute(func() error {
		var reqErr error
		raw, reqErr = c.executeRequest(ctx, c.baseURL+path)
		return reqErr
	}, isCircuitFailure)
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "rankings circuit breaker rejected request", "path", path, "state", c.breaker.State())
			return nil, crerr.WithHint(
				fmt.Errorf("%w: rankings provider is temporarily unavailable", usecase.ErrDependencyUnavailable),
				MessageUnavailable,
			)
		}
		return nil, err
	}

	var payload rankingsEnvelope
	if err := sonic.ConfigStd.Unmarshal(raw, &payload); err != nil {
		return nil, crerr.WithHint(crerr.Wrapf(err, "decode rankings payload path=%s", path), MessageDecode)
	}

	if payload.Data == nil {
		c.logger.DebugContext(ctx, "rankings payload has no data field",
			"path", path,
			"message", payload.Message,
			"upstream_error", payload.Error,
		)
		return ranking.List{}, nil
	}

	out := make(ranking.List, 0, len(*payload.Data))
	for _, item := range *payload.Data {
		out = append(out, ranking.Entry{
			Rank:        item.Rank,
			PlayerName:  item.PlayerName,
			Nationality: item.Nationality,
			Clubs:       item.Clubs,
			Year:        item.Year,
		})
	}
	return out, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.do(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !crerr.Is(err, errTransient) || attempt == c.maxRetries {
			break
		}

		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, crerr.Wrap(ctx.Err(), "wait for retry")
		case <-timer.C:
		}
	}

	if ctx.Err() == nil {
		c.logger.WarnContext(ctx, "rankings request failed", "url", fullURL, "error", lastErr)
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.WithHint(crerr.Wrap(err, "build request"), MessageUnreachable)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A cancelled caller is neither retried nor counted against the breaker.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, crerr.Wrap(ctxErr, "send request")
		}
		return nil, crerr.WithHint(crerr.Mark(crerr.Wrap(err, "send request"), errTransient), MessageUnreachable)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, crerr.Wrap(ctxErr, "read response body")
		}
		return nil, crerr.WithHint(crerr.Mark(crerr.Wrap(err, "read response body"), errTransient), MessageUnreachable)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(buf.B))
		if isRetryableStatus(resp.StatusCode) {
			statusErr = crerr.Mark(statusErr, errTransient)
		}
		return nil, crerr.WithHint(statusErr, fmt.Sprintf(MessageStatus, resp.StatusCode))
	}

	// buf goes back to the pool, the caller gets its own copy.
	return append([]byte(nil), buf.B...), nil
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}

type rankingsEnvelope struct {
	Data    *[]rankingItem `json:"data"`
	Message any            `json:"message"`
	Error   any            `json:"error"`
}

type rankingItem struct {
	Rank        int    `json:"rank"`
	PlayerName  string `json:"player_name"`
	Nationality string `json:"nationality"`
	Clubs       string `json:"clubs"`
	Year        int    `json:"year"`
}
