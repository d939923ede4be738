package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/dartxbrl/internal/logging"
	"github.com/ppiankov/dartxbrl/internal/util"
	"github.com/ppiankov/dartxbrl/internal/worker"
)

// sleepFunc is replaced in tests
var sleepFunc = time.Sleep

const maxResponseBytes = 64 << 20

// HTTPSource loads the corp map from a JSON API
type HTTPSource struct {
	url        string
	client     *http.Client
	limiter    *worker.Limiter
	userAgent  string
	maxRetries int
	logger     *zap.Logger
}

// HTTPOptions configure an HTTPSource
type HTTPOptions struct {
	Timeout    time.Duration
	UserAgent  string
	MaxRetries int
	RatePerSec float64
	Burst      int
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// NewHTTPSource creates a source for the given endpoint
func NewHTTPSource(url string, opts HTTPOptions, logger *zap.Logger) (*HTTPSource, error) {
	proxy, err := util.NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy, opts.NoProxy)
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxy

	return &HTTPSource{
		url: url,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		limiter:    worker.NewLimiter(opts.RatePerSec, opts.Burst),
		userAgent:  opts.UserAgent,
		maxRetries: opts.MaxRetries,
		logger:     logging.OrNop(logger),
	}, nil
}

// corpMapResponse is the API envelope
type corpMapResponse struct {
	Success   bool         `json:"success"`
	Count     int          `json:"count"`
	Timestamp string       `json:"timestamp"`
	Error     string       `json:"error"`
	Data      []corpMapRow `json:"data"`
}

type corpMapRow struct {
	Name      string          `json:"dart_corp"`
	Code      json.RawMessage `json:"dart_corp_code"`
	StockCode string          `json:"stock_code"`
	StockName string          `json:"stock_nm"`
	ListedYN  string          `json:"listed_yn"`
}

// StatusError is a non-2xx response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return true
}

func (s *HTTPSource) Name() string { return "http:" + s.url }

// Load fetches the corp map, retrying 429/5xx and transport errors
// with exponential backoff
func (s *HTTPSource) Load(ctx context.Context) ([]Company, error) {
	backoff := 500 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			s.logger.Debug("retrying corp map request", zap.Int("attempt", attempt), zap.Error(lastErr))
			sleepFunc(backoff)
			backoff *= 2
		}
		companies, err := s.fetch(ctx)
		if err == nil {
			return companies, nil
		}
		lastErr = err
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}
	return nil, lastErr
}

func (s *HTTPSource) fetch(ctx context.Context) ([]Company, error) {
	if err := s.limiter.Wait(ctx, s.url); err != nil {
		return nil, eris.Wrap(err, "rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetch corp map")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, eris.Wrap(err, "read corp map")
	}

	var env corpMapResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "decode corp map")
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "success=false"
		}
		return nil, eris.New("corp map api: " + msg)
	}

	companies := make([]Company, 0, len(env.Data))
	for _, row := range env.Data {
		code := strings.Trim(strings.TrimSpace(string(row.Code)), `"`)
		if code == "" || code == "null" {
			continue
		}
		name := row.Name
		if name == "" {
			name = row.StockName
		}
		companies = append(companies, Company{
			Code:      PadCode(code),
			Name:      name,
			StockCode: row.StockCode,
			Listed:    strings.EqualFold(row.ListedYN, "Y"),
		})
	}
	return companies, nil
}
