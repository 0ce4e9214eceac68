package errors

import (
	"fmt"
	"net/http"

	"vector-pai/pkg/common"

	"go.uber.org/zap"
)

// ErrorHandler maps errors onto the response envelope
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates a new error handler.
// In debug mode stack traces and raw causes are exposed in the error details.
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		debug:  debug,
	}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	appErr := GetAppError(err)
	if appErr == nil {
		h.logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", common.ExtractRequestID(r)),
		)

		var details map[string]interface{}
		if h.debug {
			details = map[string]interface{}{"cause": err.Error()}
		}
		common.RespondErrorWithDetails(w, http.StatusInternalServerError, CodeInternal, "An internal error occurred", details)
		return
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	code := appErr.Code
	if code == "" {
		code = CodeInternal
	}

	h.logError(r, appErr, status)

	details := copyDetails(appErr.Details)
	if h.debug {
		if appErr.StackTrace != "" {
			details = withDetail(details, "stack_trace", appErr.StackTrace)
		}
		if appErr.Cause != nil {
			details = withDetail(details, "cause", appErr.Cause.Error())
		}
	}

	common.RespondErrorWithDetails(w, status, code, appErr.Message, details)
}

// logError logs an application error with appropriate level
func (h *ErrorHandler) logError(r *http.Request, err *AppError, status int) {
	fields := []zap.Field{
		zap.String("error_type", string(err.Type)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", common.ExtractRequestID(r)),
	}

	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}

	if err.Details != nil {
		fields = append(fields, zap.Any("details", err.Details))
	}

	switch {
	case status >= 500:
		h.logger.Error(err.Message, fields...)
	case status >= 400:
		h.logger.Warn(err.Message, fields...)
	default:
		h.logger.Info(err.Message, fields...)
	}
}

// Middleware returns an HTTP middleware that turns panics into internal errors
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.Handle(w, r, NewInternalError("An internal error occurred").WithCause(fmt.Errorf("panic: %v", rec)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func copyDetails(src map[string]interface{}) map[string]interface{} {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func withDetail(details map[string]interface{}, key string, value interface{}) map[string]interface{} {
	if details == nil {
		details = make(map[string]interface{})
	}
	details[key] = value
	return details
}
