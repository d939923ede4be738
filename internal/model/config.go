package model

import "time"

// Version is the release version reported by the CLI and the HTTP user agent
const Version = "0.3.0"

// Config is the complete configuration passed explicitly into the pipeline
type Config struct {
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Directory   DirectoryConfig   `yaml:"directory"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Output      OutputConfig      `yaml:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
}

// PipelineConfig is the configuration surface of the extraction engine
type PipelineConfig struct {
	PeriodFilter       bool     `yaml:"period_filter"`         // Drop stale comparative periods
	Locales            []string `yaml:"locales"`               // Primary and secondary label locales
	TotalTolerance     string   `yaml:"total_tolerance"`       // Decimal string, currency units
	FiscalYearEndMonth int      `yaml:"fiscal_year_end_month"` // 1-12
	StrictEmpty        bool     `yaml:"strict_empty"`          // Empty statement is a SchemaMismatchError
}

// DirectoryConfig configures the company-name lookup collaborator
type DirectoryConfig struct {
	Source     string        `yaml:"source"` // file, http, postgres, none
	File       string        `yaml:"file"`
	APIURL     string        `yaml:"api_url"`
	DSN        string        `yaml:"dsn"`
	Table      string        `yaml:"table"`
	TTL        time.Duration `yaml:"ttl"`
	CacheDir   string        `yaml:"cache_dir"`
	Timeout    time.Duration `yaml:"timeout"`
	RatePerSec float64       `yaml:"rate_per_sec"`
	Burst      int           `yaml:"burst"`
	MaxRetries int           `yaml:"max_retries"`
	UserAgent  string        `yaml:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy"`
}

// FetchConfig configures downloads of remote filing archives
type FetchConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	MaxRetries    int           `yaml:"max_retries"`
	RespectRobots bool          `yaml:"respect_robots"`
	HostRates     []HostRate    `yaml:"host_rates"` // Per-host overrides of directory.rate_per_sec
}

// HostRate is the request rate allowed for one download host
type HostRate struct {
	Host       string  `yaml:"host"`
	RatePerSec float64 `yaml:"rate_per_sec"`
	Burst      int     `yaml:"burst"`
}

// OutputConfig configures where finalized rows are written
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	JSON    bool   `yaml:"json"`
	Verbose bool   `yaml:"verbose"`
}

// ConcurrencyConfig configures file-level parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// ScheduleConfig configures the periodic batch trigger
type ScheduleConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			PeriodFilter:       true,
			Locales:            []string{"ko", "en"},
			TotalTolerance:     "1",
			FiscalYearEndMonth: 12,
			StrictEmpty:        false,
		},
		Directory: DirectoryConfig{
			Source:     "file",
			File:       "corp_list.json",
			Table:      "corp_map",
			TTL:        24 * time.Hour,
			CacheDir:   ".dartxbrl-cache",
			Timeout:    30 * time.Second,
			RatePerSec: 2,
			Burst:      2,
			MaxRetries: 3,
			UserAgent:  "dartxbrl/" + Version,
		},
		Fetch: FetchConfig{
			Timeout:       60 * time.Second,
			MaxBodyBytes:  256 << 20,
			MaxRetries:    3,
			RespectRobots: true,
			HostRates: []HostRate{
				{Host: "opendart.fss.or.kr", RatePerSec: 5, Burst: 1},
			},
		},
		Output: OutputConfig{
			Dir: "./dartxbrl-output",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Schedule: ScheduleConfig{
			Interval: 24 * time.Hour,
		},
	}
}
