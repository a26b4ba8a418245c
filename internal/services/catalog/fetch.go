package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amaumene/mediashelf/internal/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxBodyBytes = 10 << 20

// HTTPDoer is satisfied by *http.Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is a non-2xx answer from a provider
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// Fetcher performs GET requests against one provider with a per-call timeout,
// bounded retries on transient failures and a circuit breaker.
type Fetcher struct {
	provider      string
	client        HTTPDoer
	timeout       time.Duration
	retries       int
	retryInterval time.Duration
	breaker       *gobreaker.CircuitBreaker[[]byte]
	tracer        trace.Tracer
	logger        *logrus.Logger
}

// FetcherOption configures a Fetcher
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c HTTPDoer) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout sets the deadline of a single call including retries
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.timeout = d }
}

// WithRetries sets how many times a transient failure is retried
func WithRetries(n int, interval time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.retries = n
		f.retryInterval = interval
	}
}

// WithLogger sets the logger
func WithLogger(l *logrus.Logger) FetcherOption {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a fetcher for provider
func NewFetcher(provider string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		provider:      provider,
		client:        &http.Client{},
		timeout:       8 * time.Second,
		retries:       2,
		retryInterval: 250 * time.Millisecond,
		tracer:        otel.Tracer("github.com/amaumene/mediashelf/catalog"),
		logger:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}

	metrics.CircuitBreakerState.WithLabelValues(provider).Set(0)
	f.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        provider,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// a missing item is a healthy answer
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			f.logger.WithFields(logrus.Fields{
				"provider": name,
				"from":     from.String(),
				"to":       to.String(),
			}).Warn("Circuit breaker state changed")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return f
}

// Provider returns the provider name used in logs and metrics
func (f *Fetcher) Provider() string {
	return f.provider
}

// GetJSON fetches url and decodes the body into out.
// A 404 yields ErrNotFound, every other failure wraps ErrUnavailable.
func (f *Fetcher) GetJSON(ctx context.Context, url string, header http.Header, out interface{}) error {
	ctx, span := f.tracer.Start(ctx, f.provider+".get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("catalog.provider", f.provider)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	body, err := f.breaker.Execute(func() ([]byte, error) {
		return f.getWithRetry(ctx, url, header)
	})
	metrics.UpstreamDuration.WithLabelValues(f.provider).Observe(time.Since(start).Seconds())

	if err == nil {
		if decodeErr := json.Unmarshal(body, out); decodeErr != nil {
			err = fmt.Errorf("failed to decode response: %w", decodeErr)
		}
	}

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	metrics.UpstreamRequests.WithLabelValues(f.provider, outcome).Inc()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%s: %w", f.provider, err)
		}
		return fmt.Errorf("%s: %w: %w", f.provider, ErrUnavailable, err)
	}
	return nil
}

func (f *Fetcher) getWithRetry(ctx context.Context, url string, header http.Header) ([]byte, error) {
	var body []byte
	operation := func() error {
		b, err := f.get(ctx, url, header)
		if err != nil {
			return err
		}
		body = b
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.retryInterval
	policy.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		f.logger.WithFields(logrus.Fields{
			"provider": f.provider,
			"wait_ms":  wait.Milliseconds(),
		}).WithError(err).Debug("Retrying upstream request")
	}

	err := backoff.RetryNotify(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(f.retries)), ctx), notify)
	return body, err
}

func (f *Fetcher) get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(ErrNotFound)
	case resp.StatusCode >= 500:
		return nil, &StatusError{Code: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, backoff.Permanent(&StatusError{Code: resp.StatusCode})
	}
	return body, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	}
	return -1
}
