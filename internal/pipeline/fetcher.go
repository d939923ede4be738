package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/dartxbrl/internal/logging"
	"github.com/ppiankov/dartxbrl/internal/model"
	"github.com/ppiankov/dartxbrl/internal/util"
	"github.com/ppiankov/dartxbrl/internal/worker"
)

// fetchSleepFunc is replaced in tests
var fetchSleepFunc = time.Sleep

// Fetcher downloads filing archives over HTTP
type Fetcher struct {
	httpClient *http.Client
	limiter    *worker.Limiter
	robots     *util.RobotsPolicy
	userAgent  string
	maxBytes   int64
	maxRetries int
	logger     *zap.Logger
}

// NewFetcher creates a fetcher from the fetch and directory settings.
// Proxy and rate settings are shared with the directory client.
func NewFetcher(fc model.FetchConfig, dc model.DirectoryConfig, logger *zap.Logger) (*Fetcher, error) {
	proxy, err := util.NewProxyFunc(dc.HTTPProxy, dc.HTTPSProxy, dc.NoProxy)
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxy

	client := &http.Client{
		Timeout:   fc.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	var robots *util.RobotsPolicy
	if fc.RespectRobots {
		robots = util.NewRobotsPolicy(client, dc.UserAgent, time.Hour)
	}

	limiter := worker.NewLimiter(dc.RatePerSec, dc.Burst)
	for _, hr := range fc.HostRates {
		if hr.Host == "" || hr.RatePerSec <= 0 {
			return nil, eris.Errorf("fetch.host_rates: host and a positive rate_per_sec are required, got %+v", hr)
		}
		limiter.SetHostRate(hr.Host, hr.RatePerSec, hr.Burst)
	}

	return &Fetcher{
		httpClient: client,
		robots:     robots,
		limiter:    limiter,
		userAgent:  dc.UserAgent,
		maxBytes:   fc.MaxBodyBytes,
		maxRetries: fc.MaxRetries,
		logger:     logging.OrNop(logger),
	}, nil
}

// FetchStatusError is a non-2xx response
type FetchStatusError struct {
	Code   int
	Status string
}

func (e *FetchStatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// IsRemote reports whether path is an http(s) URL
func IsRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// FetchDocument downloads a filing archive and opens it
func (f *Fetcher) FetchDocument(ctx context.Context, rawURL string) (Document, error) {
	data, name, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return Document{}, err
	}
	return ReadArchive(name, data)
}

// FetchWithRetry fetches with exponential backoff on 429, 5xx and transport errors
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) ([]byte, string, error) {
	backoff := time.Second
	var lastErr error
	for attempt := 0; attempt < f.attempts(); attempt++ {
		if attempt > 0 {
			f.logger.Debug("retrying archive download", zap.String("url", rawURL), zap.Int("attempt", attempt), zap.Error(lastErr))
			fetchSleepFunc(backoff)
			backoff *= 2
		}
		data, name, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return data, name, nil
		}
		lastErr = err
		if ctx.Err() != nil || !isRetryableFetchError(err) {
			break
		}
	}
	return nil, "", lastErr
}

func (f *Fetcher) attempts() int {
	if f.maxRetries < 1 {
		return 1
	}
	return f.maxRetries
}

// Fetch retrieves one archive and returns its bytes and file name
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	if f.robots != nil {
		allowed, delay, err := f.robots.Check(ctx, rawURL)
		if err != nil {
			return nil, "", &requestError{err}
		}
		if !allowed {
			return nil, "", fmt.Errorf("%s: %w", rawURL, util.ErrDisallowed)
		}
		if err := f.limiter.Throttle(rawURL, delay); err != nil {
			return nil, "", &requestError{err}
		}
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, "", eris.Wrap(err, "rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", &requestError{err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "application/zip,application/octet-stream;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", eris.Wrap(err, "fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &FetchStatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, "", &bodyError{err}
	}
	if int64(len(body)) > f.maxBytes {
		return nil, "", &bodyError{fmt.Errorf("archive exceeds %d bytes", f.maxBytes)}
	}

	return body, archiveName(resp.Request.URL.String()), nil
}

type requestError struct{ err error }

func (e *requestError) Error() string { return "create request: " + e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

type bodyError struct{ err error }

func (e *bodyError) Error() string { return "read body: " + e.err.Error() }
func (e *bodyError) Unwrap() error { return e.err }

func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, util.ErrDisallowed) {
		return false
	}
	var se *FetchStatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	var re *requestError
	var be *bodyError
	if errors.As(err, &re) || errors.As(err, &be) {
		return false
	}
	return true
}

// archiveName returns the last path segment of the final URL
func archiveName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	name := path.Base(strings.Trim(parsed.Path, "/"))
	if name == "." || name == "" {
		return parsed.Host
	}
	return name
}
