package bookingapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	logginghelpers "github.com/Pjt727/bookcs/data/logging-helpers"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

const (
	LevelHttpReport slog.Level = logginghelpers.LevelReportIO

	RequestIDHeader = "X-Request-ID"
)

const (
	decreaseFactor = 0.8 // Reduce aggressively on failure
	increaseFactor = 0.2 // Increase conservatively on success
	minLimit       = 1   // Minimum requests per second
)

// AdaptiveRateLimiter backs off when the booking api starts failing so a
// struggling backend is not hammered by every open grid
type AdaptiveRateLimiter struct {
	mu          sync.Mutex
	limit       rate.Limit
	limiter     *rate.Limiter
	maxIncrease rate.Limit
	ceiling     rate.Limit
}

func NewAdaptiveRateLimiter(startingLimit rate.Limit, startingBurst int, maxIncrease rate.Limit) *AdaptiveRateLimiter {
	return &AdaptiveRateLimiter{
		limit:       startingLimit,
		limiter:     rate.NewLimiter(startingLimit, startingBurst),
		maxIncrease: maxIncrease,
		ceiling:     startingLimit,
	}
}

func (a *AdaptiveRateLimiter) Fail() {
	a.mu.Lock()
	defer a.mu.Unlock()

	newLimit := max(rate.Limit(float64(a.limit)*(1-decreaseFactor)), minLimit)
	a.setLimit(newLimit)
}

// recovers towards the configured limit, never above it
func (a *AdaptiveRateLimiter) Succeed() {
	a.mu.Lock()
	defer a.mu.Unlock()

	newLimit := min(rate.Limit(float64(a.limit)*(1+increaseFactor)), a.limit+a.maxIncrease, a.ceiling)
	a.setLimit(newLimit)
}

func (a *AdaptiveRateLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

func (a *AdaptiveRateLimiter) Limit() rate.Limit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.limit
}

func (a *AdaptiveRateLimiter) setLimit(newLimit rate.Limit) {
	a.limit = newLimit
	a.limiter.SetLimit(a.limit)
}

type RateLimiter interface {
	Succeed()
	Fail()
	Wait(context.Context) error
}

type rateLimitedRoundTripper struct {
	transport http.RoundTripper
	limiter   RateLimiter
}

func (rt *rateLimitedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := rt.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	resp, err := rt.transport.RoundTrip(req)
	if err != nil {
		rt.limiter.Fail()
		return nil, err
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		rt.limiter.Fail()
	} else {
		rt.limiter.Succeed()
	}

	return resp, nil
}

func AddRateLimiter(client *http.Client, limiter RateLimiter) {
	rt := &rateLimitedRoundTripper{
		limiter: limiter,
	}
	if client.Transport == nil {
		rt.transport = http.DefaultTransport
	} else {
		rt.transport = client.Transport
	}
	client.Transport = rt
}

type loggerRoundTripper struct {
	logger    *slog.Logger
	transport http.RoundTripper
	requestID int32
}

func (rt *loggerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if !rt.logger.Enabled(req.Context(), LevelHttpReport) {
		return rt.transport.RoundTrip(req)
	}

	// grids loaded in parallel interleave their lines, the id ties them together
	currentID := atomic.AddInt32(&rt.requestID, 1)
	start := time.Now()

	rt.logger.Log(req.Context(), LevelHttpReport, "outgoing request", "method", req.Method, "url", req.URL.String(), "id", currentID)

	resp, err := rt.transport.RoundTrip(req)
	if err != nil {
		rt.logger.Log(req.Context(), LevelHttpReport, "request failed", "url", req.URL.String(), "id", currentID, "err", err)
		return nil, err
	}

	rt.logger.Log(req.Context(), LevelHttpReport, "response received",
		"status", resp.Status,
		"url", req.URL.String(),
		"id", currentID,
		"took", time.Since(start),
	)

	return resp, nil
}

func AddHttpReporting(client *http.Client, logger *slog.Logger) {
	rt := &loggerRoundTripper{
		logger:    logger,
		requestID: 0,
	}
	if client.Transport == nil {
		rt.transport = http.DefaultTransport
	} else {
		rt.transport = client.Transport
	}
	client.Transport = rt
}

type requestIDRoundTripper struct {
	transport http.RoundTripper
}

// forwards the id of the incoming request so api logs can be matched up
func (rt *requestIDRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) == "" {
		id := middleware.GetReqID(req.Context())
		if id == "" {
			id = uuid.NewString()
		}
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, id)
	}
	return rt.transport.RoundTrip(req)
}

// NewHTTPClient layers retries, rate limiting and request reporting over the
// default transport. Redirects are never followed, the api answers with json
// and the logout endpoint's redirect is relayed instead.
func NewHTTPClient(logger *slog.Logger, limiter RateLimiter, maxRetries int, timeout time.Duration) *http.Client {
	noRedirects := func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	// retryablehttp sends through inner, so both clients must stop at redirects
	inner := &http.Client{Transport: http.DefaultTransport, CheckRedirect: noRedirects}
	AddHttpReporting(inner, logger)
	AddRateLimiter(inner, limiter)
	inner.Transport = &requestIDRoundTripper{transport: inner.Transport}

	client := retryablehttp.NewClient()
	client.HTTPClient = inner
	client.RetryMax = maxRetries
	client.Logger = logger
	// a final failing response is handed back as is so the status can be reported
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	stdClient := client.StandardClient()
	stdClient.Timeout = timeout
	stdClient.CheckRedirect = noRedirects
	return stdClient
}

// shorthand to check if a response is within 200-299
func IsOk(r *http.Response) bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// returns a ErrTemporaryNetworkFailure wrapped error of either
// the respErr if not nill or status code if non "Ok"
func RespOrStatusErr(r *http.Response, respErr error) error {
	if respErr != nil {
		return errors.Join(ErrTemporaryNetworkFailure, respErr)
	}
	if !IsOk(r) {
		return fmt.Errorf(
			"%w Got status code %d",
			ErrTemporaryNetworkFailure,
			r.StatusCode,
		)
	}
	return nil
}
