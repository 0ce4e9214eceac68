package common

import (
	"context"
	"time"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	startTimeKey
)

// WithRequestID stores the request id used in logs and error envelopes
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the stored request id; empty ids count as absent
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok && requestID != ""
}

// WithStartTime marks when the request entered the router
func WithStartTime(ctx context.Context, startTime time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey, startTime)
}

// GetElapsedTime is the time since WithStartTime, or zero when unset
func GetElapsedTime(ctx context.Context) time.Duration {
	if startTime, ok := ctx.Value(startTimeKey).(time.Time); ok {
		return time.Since(startTime)
	}
	return 0
}
