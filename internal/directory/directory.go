// Package directory resolves DART corp codes to company names.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/dartxbrl/internal/cache"
	"github.com/ppiankov/dartxbrl/internal/logging"
)

// ErrNotFound is returned when a code is not in the directory
var ErrNotFound = errors.New("corp code not found")

// Resolver maps an eight-digit corp code to a company name
type Resolver interface {
	Resolve(ctx context.Context, code string) (string, error)
}

// Company is one directory entry
type Company struct {
	Code      string `json:"corp_code"`
	Name      string `json:"name"`
	StockCode string `json:"stock_code,omitempty"`
	Listed    bool   `json:"listed,omitempty"`
}

// Source loads the full company list
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Company, error)
}

// Directory is a Resolver backed by a Source and a snapshot cache.
// The snapshot is refreshed after ttl; when a refresh fails the last good
// snapshot (memory, then stale disk copy) keeps serving.
type Directory struct {
	source Source
	cache  cache.Cache
	key    string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	index    map[string]Company
	loadedAt time.Time
}

// New creates a directory; c may be nil to disable snapshot caching
func New(source Source, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Directory {
	return &Directory{
		source: source,
		cache:  c,
		key:    cache.Key("corp", source.Name()),
		ttl:    ttl,
		logger: logging.OrNop(logger).With(zap.String("source", source.Name())),
		now:    time.Now,
	}
}

// NormalizeCode strips whitespace and leading zeros so that "126380" and
// "00126380" match
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	trimmed := strings.TrimLeft(code, "0")
	if trimmed == "" && code != "" {
		return "0"
	}
	return trimmed
}

// Resolve returns the company name for a code
func (d *Directory) Resolve(ctx context.Context, code string) (string, error) {
	if NormalizeCode(code) == "" {
		return "", ErrNotFound
	}
	if err := d.refresh(ctx); err != nil {
		return "", err
	}

	d.mu.Lock()
	c, ok := d.index[NormalizeCode(code)]
	d.mu.Unlock()
	if !ok || c.Name == "" {
		return "", ErrNotFound
	}
	return c.Name, nil
}

// Len returns the number of companies in the current snapshot
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.index)
}

func (d *Directory) refresh(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.index != nil && d.now().Sub(d.loadedAt) < d.ttl {
		return nil
	}

	if d.cache != nil {
		if data, ok := d.cache.Get(d.key); ok {
			if companies, err := decodeSnapshot(data); err == nil {
				d.install(companies)
				d.logger.Debug("directory snapshot from cache", zap.Int("companies", len(companies)))
				return nil
			}
		}
	}

	companies, err := d.source.Load(ctx)
	if err == nil {
		d.install(companies)
		d.store(companies)
		d.logger.Info("directory loaded", zap.Int("companies", len(companies)))
		return nil
	}

	if d.index != nil {
		d.logger.Warn("directory refresh failed, serving previous snapshot", zap.Error(err))
		d.loadedAt = d.now()
		return nil
	}
	if stale, ok := d.cache.(cache.StaleReader); ok {
		if data, storedAt, found := stale.GetStale(d.key); found {
			if companies, decErr := decodeSnapshot(data); decErr == nil {
				d.logger.Warn("directory load failed, serving stale snapshot",
					zap.Time("stored_at", storedAt), zap.Error(err))
				d.install(companies)
				return nil
			}
		}
	}
	return eris.Wrapf(err, "load directory from %s", d.source.Name())
}

func (d *Directory) install(companies []Company) {
	index := make(map[string]Company, len(companies))
	for _, c := range companies {
		key := NormalizeCode(c.Code)
		if key == "" {
			continue
		}
		if _, dup := index[key]; !dup {
			index[key] = c
		}
	}
	d.index = index
	d.loadedAt = d.now()
}

func (d *Directory) store(companies []Company) {
	if d.cache == nil {
		return
	}
	data, err := json.Marshal(companies)
	if err != nil {
		d.logger.Warn("encode directory snapshot", zap.Error(err))
		return
	}
	if err := d.cache.Set(d.key, data, d.ttl); err != nil {
		d.logger.Warn("store directory snapshot", zap.Error(err))
	}
}

func decodeSnapshot(data []byte) ([]Company, error) {
	var companies []Company
	if err := json.Unmarshal(data, &companies); err != nil {
		return nil, eris.Wrap(err, "decode directory snapshot")
	}
	return companies, nil
}

// Static is an in-memory Resolver, used when no directory is configured
// and in tests
type Static map[string]string

// Resolve looks up a code, tolerating leading-zero differences
func (s Static) Resolve(_ context.Context, code string) (string, error) {
	want := NormalizeCode(code)
	for k, name := range s {
		if NormalizeCode(k) == want && want != "" {
			return name, nil
		}
	}
	return "", ErrNotFound
}
