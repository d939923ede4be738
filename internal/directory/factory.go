package directory

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ppiankov/dartxbrl/internal/cache"
	"github.com/ppiankov/dartxbrl/internal/model"
)

// FromConfig builds the resolver selected by cfg.Source
// ("file", "http", "postgres" or "none")
func FromConfig(cfg model.DirectoryConfig, logger *zap.Logger) (Resolver, error) {
	var src Source
	switch cfg.Source {
	case "none", "":
		return Static{}, nil
	case "file":
		src = &FileSource{Path: cfg.File}
	case "http":
		if cfg.APIURL == "" {
			return nil, fmt.Errorf("directory source http requires api_url")
		}
		h, err := NewHTTPSource(cfg.APIURL, HTTPOptions{
			Timeout:    cfg.Timeout,
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
			RatePerSec: cfg.RatePerSec,
			Burst:      cfg.Burst,
			HTTPProxy:  cfg.HTTPProxy,
			HTTPSProxy: cfg.HTTPSProxy,
			NoProxy:    cfg.NoProxy,
		}, logger)
		if err != nil {
			return nil, err
		}
		src = h
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("directory source postgres requires dsn")
		}
		src = NewPostgresSource(cfg.DSN, cfg.Table)
	default:
		return nil, fmt.Errorf("unknown directory source %q", cfg.Source)
	}

	var c cache.Cache
	if cfg.CacheDir != "" {
		c = cache.NewLayeredCache(cfg.TTL, filepath.Join(cfg.CacheDir, "directory"))
	}
	return New(src, c, cfg.TTL, logger), nil
}
