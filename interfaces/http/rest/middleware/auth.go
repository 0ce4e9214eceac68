package middleware

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	"vector-pai/pkg/auth"
	"vector-pai/pkg/errors"
)

// Authenticate rate limits by client IP, then verifies the bearer token and
// stores its claims in the request context. Requests rejected here never
// reach a handler.
func Authenticate(validator auth.TokenValidator, limiter auth.RateLimiter, errHandler *errors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			if limiter != nil && !limiter.Allow(clientIP) {
				errHandler.Handle(w, r, errors.NewThrottlingError("rate limit exceeded").WithDetail("ip", clientIP))
				return
			}

			token, err := auth.ExtractBearer(r.Header)
			if err != nil {
				errHandler.Handle(w, r, err)
				return
			}

			claims, err := validator.Validate(r.Context(), token)
			if err != nil {
				logger.Warn("Invalid token",
					zap.Error(err),
					zap.String("ip", clientIP),
					zap.String("path", r.URL.Path),
				)
				errHandler.Handle(w, r, err)
				return
			}

			logger.Debug("Request authenticated",
				zap.String("user_id", claims.Subject),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
			)

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RateLimit applies the per-IP limiter to routes that take no token
func RateLimit(limiter auth.RateLimiter, errHandler *errors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter != nil && !limiter.Allow(getClientIP(r)) {
				errHandler.Handle(w, r, errors.NewThrottlingError("rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP keys the limiter on the peer address. Forwarding headers are
// client controlled and ignored; behind API Gateway the adapter fills
// RemoteAddr from the request's sourceIp.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
