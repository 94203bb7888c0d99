package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/auth"
	"github.com/rogerio-castellano/frame-storefront/internal/http/ban"
	rl "github.com/rogerio-castellano/frame-storefront/internal/http/rate_limiter"
)

// TokenParser is the part of auth.Verifier the middleware needs.
type TokenParser interface {
	ParseToken(tokenStr string) (auth.Identity, error)
}

// AuthMiddleware requires a valid bearer token and stores the caller in the
// request context.
func AuthMiddleware(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing or invalid token", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")
			id, err := tokens.ParseToken(tokenStr)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := auth.WithIdentity(r.Context(), id, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}
		if !id.Admin {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit throttles each client IP. Every rejected request is a strike;
// banned clients are refused outright until the ban expires. A nil tracker
// only throttles.
func RateLimit(limiter *rl.Limiter, tracker *ban.Tracker, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			if tracker != nil {
				banned, err := tracker.IsBanned(r.Context(), ip)
				if err != nil {
					log.Warn("ban lookup failed", zap.String("ip", ip), zap.Error(err))
				}
				if banned {
					http.Error(w, "too many requests, try again later", http.StatusForbidden)
					return
				}
			}

			if limiter.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}

			if tracker != nil {
				if _, err := tracker.Strike(r.Context(), ip, r.URL.Path); err != nil {
					log.Warn("strike failed", zap.String("ip", ip), zap.Error(err))
				}
			}
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		})
	}
}

// clientIP expects chi's RealIP to have rewritten RemoteAddr already.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RequestLogger writes one line per request.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				fields := []zap.Field{
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", chimw.GetReqID(r.Context())),
				}
				switch {
				case ww.Status() >= http.StatusInternalServerError:
					log.Error("request", fields...)
				case ww.Status() >= http.StatusBadRequest:
					log.Warn("request", fields...)
				default:
					log.Info("request", fields...)
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
