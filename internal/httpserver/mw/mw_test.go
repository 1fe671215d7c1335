package mw

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/campstats/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host    string
		pattern string
		want    bool
	}{
		{"docs.example.com", "docs.example.com", true},
		{"docs.example.com", "*.example.com", true},
		{"example.com", "*.example.com", false},
		{"docs.example.org", "*.example.com", false},
		{"other.example.com", "docs.example.com", false},
	}
	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"docs.example.com"}, logger.NewNop())(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "docs.example.com"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("allowed host: status = %d, want 200", rec.Code)
	}

	req.Host = "Docs.Example.com:8080"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("host with port and capitals: status = %d, want 200", rec.Code)
	}

	req.Host = "evil.example.com"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("rejected host: status = %d, want 403", rec.Code)
	}
}

func TestEnforceHostPassthrough(t *testing.T) {
	h := EnforceHost(nil, logger.NewNop())(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "anything"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8"}, false, logger.NewNop())(okHandler)

	tests := []struct {
		remote string
		want   int
	}{
		{"10.1.2.3:5555", http.StatusOK},
		{"192.168.1.1:5555", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/infra", nil)
		req.RemoteAddr = tt.remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("RemoteAddr %s: status = %d, want %d", tt.remote, rec.Code, tt.want)
		}
		if tt.want == http.StatusForbidden && !strings.Contains(rec.Body.String(), "Forbidden") {
			t.Errorf("RemoteAddr %s: body = %q, want a Forbidden message", tt.remote, rec.Body.String())
		}
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 1})(okHandler)

	type result struct {
		code      int
		limit     string
		remaining string
		retry     string
	}
	results := make([]result, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		res := rec.Result()
		results = append(results, result{
			code:      res.StatusCode,
			limit:     res.Header.Get("X-RateLimit-Limit"),
			remaining: res.Header.Get("X-RateLimit-Remaining"),
			retry:     res.Header.Get("Retry-After"),
		})
	}

	want := []result{
		{code: http.StatusOK, limit: "2", remaining: "1"},
		{code: http.StatusOK, limit: "2", remaining: "0"},
		{code: http.StatusTooManyRequests, limit: "2", remaining: "0", retry: "60"},
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("request %d: got %+v, want %+v", i+1, results[i], want[i])
		}
	}

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("second client: status = %d, want 200", rec.Code)
	}
}

func TestRateLimitRefills(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 60, now: func() time.Time { return now }})

	if ok, _, _ := l.take("a", now); !ok {
		t.Fatal("first request refused")
	}
	ok, _, retry := l.take("a", now)
	if ok || retry != 1 {
		t.Fatalf("take() = %v retry=%d, want refused with retry 1", ok, retry)
	}
	if ok, _, _ := l.take("a", now.Add(time.Second)); !ok {
		t.Error("request refused after one refill period")
	}
}

func TestRateLimitEvictsIdleClients(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newLimiter(RateLimitConfig{Burst: 5, MaxEntries: 2, IdleTTL: time.Minute, SweepInterval: time.Hour})

	l.take("a", now)
	l.take("b", now.Add(30*time.Second))
	// the table is full, "a" has been idle past the TTL
	l.take("c", now.Add(90*time.Second))

	if got := l.size(); got != 2 {
		t.Errorf("size() = %d, want 2 after eviction", got)
	}
}

// Run with -race: eviction reads lastSeen while other clients update theirs.
func TestRateLimitConcurrentEviction(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 10, RefillPerIPPerMin: 60, MaxEntries: 1, IdleTTL: time.Nanosecond})
	start := time.Now()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := "10.0.0." + strconv.Itoa(i)
			for j := range 20 {
				l.take(key, start.Add(time.Duration(j)*time.Millisecond))
			}
		}()
	}
	wg.Wait()

	if got := l.size(); got < 1 {
		t.Errorf("size() = %d, want at least the last client", got)
	}
}

func TestLogCapturesStatus(t *testing.T) {
	h := Log(logger.NewNop(), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
