package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/citegraph/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, remote string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.RemoteAddr = remote
	r.ServeHTTP(w, req)

	return w.Code
}

func newLimitedRouter(t *testing.T, ratePerSec float64, burst int) *gin.Engine {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := gin.New()
	r.Use(middleware.NewRateLimiter(ctx, ratePerSec, burst).Handler())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	return r
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	r := newLimitedRouter(t, 10, 5)

	if code := serve(r, "1.2.3.4:1234"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestRateLimiter_BlocksExceedingBurst(t *testing.T) {
	r := newLimitedRouter(t, 0.001, 2)

	for i := range 3 {
		code := serve(r, "1.2.3.4:1234")

		if i < 2 && code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}

		if i == 2 && code != http.StatusTooManyRequests {
			t.Fatalf("request %d: expected 429, got %d", i, code)
		}
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	r := newLimitedRouter(t, 0.001, 1)

	if code := serve(r, "1.1.1.1:1"); code != http.StatusOK {
		t.Fatalf("first client: got %d", code)
	}

	if code := serve(r, "2.2.2.2:1"); code != http.StatusOK {
		t.Fatalf("second client should have its own bucket, got %d", code)
	}

	if code := serve(r, "1.1.1.1:1"); code != http.StatusTooManyRequests {
		t.Fatalf("first client over budget: got %d", code)
	}
}
