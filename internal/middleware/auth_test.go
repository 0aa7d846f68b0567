package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/middleware"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestStaticKeys(t *testing.T) {
	keys := middleware.NewStaticKeys([]string{"ci=secret-one", "secret-two", "empty="})

	if keys.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", keys.Len())
	}

	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{"secret-one", "ci", false},
		{"secret-two", "client-2", false},
		{"nope", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := keys.VerifyAPIKey(context.Background(), tt.key)
		if tt.wantErr {
			if !errors.Is(err, middleware.ErrInvalidAPIKey) {
				t.Errorf("VerifyAPIKey(%q): expected ErrInvalidAPIKey, got %v", tt.key, err)
			}
			continue
		}

		if err != nil || got != tt.want {
			t.Errorf("VerifyAPIKey(%q) = %q, %v; want %q", tt.key, got, err, tt.want)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	keys := middleware.NewStaticKeys([]string{"ci=good-key"})

	tests := []struct {
		name       string
		authHeader string
		wantCode   int
	}{
		{"valid token", "Bearer good-key", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"invalid token", "Bearer bad-key", http.StatusUnauthorized},
		{"no bearer prefix", "good-key", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.AuthMiddleware(keys, quietLogger(), nil))
			r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.ClientKey)) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("got %d, want %d", w.Code, tt.wantCode)
			}

			if tt.wantCode == http.StatusOK && w.Body.String() != "ci" {
				t.Errorf("client = %q, want ci", w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_LocksOutAfterFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	guard := middleware.NewFailureGuard(ctx, quietLogger())
	keys := middleware.NewStaticKeys([]string{"good-key"})

	r := gin.New()
	r.Use(middleware.AuthMiddleware(keys, quietLogger(), guard))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(key string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("Authorization", "Bearer "+key)
		r.ServeHTTP(w, req)

		return w.Code
	}

	for i := range 5 {
		if code := send("bad"); code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: got %d, want 401", i, code)
		}
	}

	if code := send("good-key"); code != http.StatusTooManyRequests {
		t.Fatalf("locked-out client got %d, want 429", code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"abc123", ""},
		{"", ""},
		{"Bearer ", ""},
		{"bearer abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}

			if got := middleware.ExtractBearerToken(c); got != tt.want {
				t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
