package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	if l := NewLimiter(10, 5); l.burst != 5 {
		t.Errorf("expected burst 5, got %d", l.burst)
	}
	if l := NewLimiter(10, -1); l.burst != 1 {
		t.Errorf("expected default burst 1, got %d", l.burst)
	}
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)
	if !limiter.Allow("http://corp-map.example/api") {
		t.Error("expected first request allowed")
	}
	if limiter.Allow("http://corp-map.example/api?page=2") {
		t.Error("expected second request to the same host throttled")
	}
	if !limiter.Allow("http://other.example/api") {
		t.Error("expected other host unaffected")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 10; i++ {
		if !limiter.Allow("http://corp-map.example") {
			t.Fatalf("expected unlimited limiter to allow request %d", i)
		}
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	url := "http://corp-map.example"
	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected context error while throttled")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(1, 1)
	limiter.SetHostRate("fast.example", 1000, 10)
	for i := 0; i < 5; i++ {
		if !limiter.Allow("http://fast.example") {
			t.Fatalf("expected burst of 10 on fast host, denied at %d", i)
		}
	}
}

func TestLimiter_Throttle(t *testing.T) {
	limiter := NewLimiter(0, 5)
	url := "http://files.example/a.zip"
	if err := limiter.Throttle(url, time.Hour); err != nil {
		t.Fatalf("throttle: %v", err)
	}
	if !limiter.Allow(url) {
		t.Fatal("expected first request to pass")
	}
	if limiter.Allow(url) {
		t.Error("expected second request to be throttled")
	}
	if !limiter.Allow("http://other.example/b.zip") {
		t.Error("expected other hosts to be unaffected")
	}
}

func TestLimiter_ThrottleKeepsSlowerRate(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	url := "http://slow.example"
	if err := limiter.Throttle(url, time.Millisecond); err != nil {
		t.Fatalf("throttle: %v", err)
	}
	host, _ := hostOf(url)
	if got := limiter.forHost(host).Limit(); got != 0.001 {
		t.Errorf("expected slower rate kept, got %v", got)
	}
}
