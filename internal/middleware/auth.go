package middleware

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// authTimingFloor is the minimum response time of a rejected request.
const authTimingFloor = 50 * time.Millisecond

// ClientKey is the gin context key holding the authenticated client name.
const ClientKey = "client"

// ErrInvalidAPIKey is returned by a KeyVerifier for an unknown key.
var ErrInvalidAPIKey = errors.New("invalid api key")

// KeyVerifier resolves an API key to a client name.
type KeyVerifier interface {
	VerifyAPIKey(ctx context.Context, apiKey string) (string, error)
}

// StaticKeys verifies keys against a fixed list. Only SHA-256 digests are
// kept in memory.
type StaticKeys struct {
	digests [][sha256.Size]byte
	names   []string
}

// NewStaticKeys builds a verifier from name=key pairs. An entry without a
// name is registered as "client-N".
func NewStaticKeys(entries []string) *StaticKeys {
	s := &StaticKeys{}

	for i, e := range entries {
		name, key, ok := strings.Cut(e, "=")
		if !ok {
			name, key = "client-"+strconv.Itoa(i+1), e
		}

		if key == "" {
			continue
		}

		s.digests = append(s.digests, sha256.Sum256([]byte(key)))
		s.names = append(s.names, name)
	}

	return s
}

// Len returns the number of registered keys.
func (s *StaticKeys) Len() int { return len(s.digests) }

// VerifyAPIKey compares the key digest against every registered digest in
// constant time.
func (s *StaticKeys) VerifyAPIKey(_ context.Context, apiKey string) (string, error) {
	d := sha256.Sum256([]byte(apiKey))
	match := -1

	for i := range s.digests {
		if subtle.ConstantTimeCompare(d[:], s.digests[i][:]) == 1 {
			match = i
		}
	}

	if match < 0 {
		return "", ErrInvalidAPIKey
	}

	return s.names[match], nil
}

func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// AuthMiddleware returns Gin middleware that authenticates requests via
// Bearer token. A non-nil guard locks out clients after repeated failures.
func AuthMiddleware(verifier KeyVerifier, log *logrus.Logger, guard *FailureGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		ip := c.ClientIP()
		if guard != nil && guard.Blocked(ip) {
			respondError(c, http.StatusTooManyRequests, "rate_limited", "too many failed authentication attempts")
			return
		}

		apiKey := ExtractBearerToken(c)
		if apiKey == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")
			return
		}

		client, err := verifier.VerifyAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			log.WithFields(logrus.Fields{
				"client_ip":  ip,
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"request_id": c.GetString(RequestIDKey),
			}).Warn("authentication failed")

			if guard != nil {
				guard.RecordFailure(ip)
			}

			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid api key")
			return
		}

		if guard != nil {
			guard.Reset(ip)
		}

		c.Set(ClientKey, client)
		c.Next()
	}
}

// ExtractBearerToken extracts the API key from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	return strings.TrimPrefix(header, "Bearer ")
}
