package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestRateLimit_AllowsThenBlocks(t *testing.T) {
	h := RateLimit(Keys{}, 60, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "1.2.3.4:1234"

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("want 200 got %d", rr.Code)
		}
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != 429 {
		t.Fatalf("want 429 got %d", rr.Code)
	}

	// a different client has its own bucket
	other := httptest.NewRequest("GET", "/", nil)
	other.RemoteAddr = "5.6.7.8:1234"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	if rr.Code != 200 {
		t.Fatalf("want 200 for other client got %d", rr.Code)
	}
}

func TestRateLimit_UnknownKeysShareTheIPBucket(t *testing.T) {
	h := RateLimit(Keys{Public: []string{"pub_key"}}, 60, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	limited := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("GET", "/api/checks?api_key=junk"+strconv.Itoa(i), nil)
		req.RemoteAddr = "6.6.6.6:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited < 15 {
		t.Fatalf("rotating junk keys must not reset the bucket; limited %d of 20", limited)
	}

	// a valid key from the same IP gets its own bucket
	req := httptest.NewRequest("GET", "/api/checks", nil)
	req.RemoteAddr = "6.6.6.6:1234"
	req.Header.Set("X-API-Key", "pub_key")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("valid key should not share the IP bucket; got %d", rr.Code)
	}
}

func TestLimiter_RefillAndSweep(t *testing.T) {
	l := newLimiter(1, 1, time.Minute)
	now := time.Unix(1000, 0)

	if !l.allow("k", now) || l.allow("k", now) {
		t.Fatalf("burst of 1 not honored")
	}
	if !l.allow("k", now.Add(time.Second)) {
		t.Fatalf("want refill after 1s")
	}

	l.allow("idle", now)
	l.allow("k", now.Add(2*time.Minute))
	if _, ok := l.buckets["idle"]; ok {
		t.Fatalf("idle bucket not swept")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
	if got := clientIP(r); got != "9.9.9.9" {
		t.Fatalf("got %q", got)
	}
}
