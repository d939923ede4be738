package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
)

// ErrDisallowed is returned for URLs excluded by the host's robots.txt
var ErrDisallowed = errors.New("disallowed by robots.txt")

// RobotsPolicy answers robots.txt questions for archive downloads.
// Parsed files are cached per scheme and host.
type RobotsPolicy struct {
	client *http.Client
	agent  string
	cache  *gocache.Cache
}

// NewRobotsPolicy creates a policy; client should carry the same proxy and
// timeout settings as the downloads themselves
func NewRobotsPolicy(client *http.Client, userAgent string, ttl time.Duration) *RobotsPolicy {
	if client == nil {
		client = http.DefaultClient
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RobotsPolicy{
		client: client,
		agent:  NormalizeUserAgent(userAgent),
		cache:  gocache.New(ttl, 2*ttl),
	}
}

// Check returns whether rawURL may be fetched and the crawl delay of the
// matching group. An unreachable robots.txt allows everything.
func (p *RobotsPolicy) Check(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	data := p.robots(ctx, parsed)
	if data == nil {
		return true, 0, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	var delay time.Duration
	if group := data.FindGroup(p.agent); group != nil {
		delay = group.CrawlDelay
	}
	return data.TestAgent(path, p.agent), delay, nil
}

func (p *RobotsPolicy) robots(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	key := u.Scheme + "://" + u.Host
	if v, ok := p.cache.Get(key); ok {
		data, _ := v.(*robotstxt.RobotsData)
		return data
	}

	data, err := p.fetch(ctx, key+"/robots.txt")
	if err != nil {
		// cache the miss too so a dead host is not asked again per file
		p.cache.SetDefault(key, (*robotstxt.RobotsData)(nil))
		return nil
	}
	p.cache.SetDefault(key, data)
	return data
}

func (p *RobotsPolicy) fetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if p.agent != "" {
		req.Header.Set("User-Agent", p.agent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}

// NormalizeUserAgent reduces "dartxbrl/0.3.0 (+url)" to "dartxbrl"
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	return strings.Split(parts[0], "/")[0]
}
