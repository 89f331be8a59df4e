package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apierrors "github.com/Dhanaraju-118/backend/internal/errors"
	"github.com/Dhanaraju-118/backend/internal/server/ratelimit"
	"github.com/Dhanaraju-118/backend/internal/server/reqctx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// statusRecorder captures the response status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

// Unwrap returns the underlying ResponseWriter for middleware that needs it.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// LogRequests attaches request metadata (client IP, request ID) to the
// context and logs one line per request.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := reqctx.GetClientIP(r)
		rid := uuid.NewString()
		ctx := reqctx.WithClientIP(r.Context(), ip)
		ctx = reqctx.WithRequestID(ctx, rid)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		slog.InfoContext(ctx, "Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"ip", ip,
			"rid", rid)
	})
}

// LimitRequestBody caps the size of request bodies. 0 disables the cap.
func LimitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware enforces per-client-IP token bucket limits. Requests
// that match a tier get X-RateLimit-* headers; over-rate requests get a 429
// with Retry-After.
func RateLimitMiddleware(cfg *ratelimit.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tier := cfg.Match(r.Method, r.URL.Path)
			if tier == nil {
				next.ServeHTTP(w, r)
				return
			}
			result := tier.Limiter.Allow(ratelimit.BuildKey(reqctx.ClientIP(r.Context()), tier.Name))
			if !result.Allowed {
				ratelimit.WriteHeaders(w, result)
				err := apierrors.RateLimited(int(result.RetryAfter.Seconds()))
				writeErrorResponseWithCode(w, err.StatusCode(), err.Code(), err.Error(), err.Details())
				return
			}
			next.ServeHTTP(ratelimit.NewResponseWriter(w, result), r)
		})
	}
}

// AuthMiddleware requires a Bearer HMAC token on mutating workspace requests
// when enabled. Read endpoints, the health check and the frontend stay open.
func AuthMiddleware(secret []byte, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !required || len(secret) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutatingAPIRequest(r) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, "Missing or malformed Authorization header")
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				writeAuthError(w, "Invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isMutatingAPIRequest reports whether the request mutates workspace state.
func isMutatingAPIRequest(r *http.Request) bool {
	if !strings.HasPrefix(r.URL.Path, "/api/workspaces") {
		return false
	}
	return r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(auth, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}

func writeAuthError(w http.ResponseWriter, message string) {
	writeErrorResponseWithCode(w, http.StatusUnauthorized, apierrors.ErrUnauthorized, message, nil)
}
