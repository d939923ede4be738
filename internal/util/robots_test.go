package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRobotsPolicy_Check(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		hits.Add(1)
		_, _ = fmt.Fprint(w, "User-agent: dartxbrl\nDisallow: /private/\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n")
	}))
	defer server.Close()

	p := NewRobotsPolicy(server.Client(), "dartxbrl/0.3.0", time.Minute)

	allowed, delay, err := p.Check(context.Background(), server.URL+"/files/a.zip")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !allowed {
		t.Error("expected /files/ to be allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("expected 2s crawl delay, got %v", delay)
	}

	allowed, _, _ = p.Check(context.Background(), server.URL+"/private/b.zip")
	if allowed {
		t.Error("expected /private/ to be disallowed")
	}
	if hits.Load() != 1 {
		t.Errorf("expected robots.txt fetched once, got %d", hits.Load())
	}
}

func TestRobotsPolicy_OtherAgentBlocked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /\n")
	}))
	defer server.Close()

	p := NewRobotsPolicy(server.Client(), "otherbot", time.Minute)
	if allowed, _, _ := p.Check(context.Background(), server.URL+"/a.zip"); allowed {
		t.Error("expected wildcard disallow to apply")
	}
}

func TestRobotsPolicy_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := NewRobotsPolicy(server.Client(), "dartxbrl", time.Minute)
	allowed, delay, err := p.Check(context.Background(), server.URL+"/a.zip")
	if err != nil || !allowed || delay != 0 {
		t.Errorf("expected allowed without delay, got %v %v %v", allowed, delay, err)
	}
}

func TestRobotsPolicy_UnreachableAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p := NewRobotsPolicy(nil, "dartxbrl", time.Minute)
	if allowed, _, _ := p.Check(context.Background(), url+"/a.zip"); !allowed {
		t.Error("expected unreachable robots.txt to allow")
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := map[string]string{
		"dartxbrl/0.3.0 (+https://example.com)": "dartxbrl",
		"curl/8.0":                              "curl",
		"":                                      "",
	}
	for in, want := range tests {
		if got := NormalizeUserAgent(in); got != want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", in, got, want)
		}
	}
}
