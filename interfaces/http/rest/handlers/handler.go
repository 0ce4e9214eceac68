package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vector-pai/application/services"
	"vector-pai/domain/validators"
	"vector-pai/pkg/auth"
	"vector-pai/pkg/common"
	"vector-pai/pkg/errors"
)

// maxBodyBytes bounds every request body
const maxBodyBytes = 1 << 20

// base holds what every entity handler needs to answer a request
type base struct {
	errors *errors.ErrorHandler
	logger *zap.Logger
}

func newBase(errHandler *errors.ErrorHandler, logger *zap.Logger) base {
	return base{errors: errHandler, logger: logger}
}

// readBody returns the raw request body
func (b base) readBody(w http.ResponseWriter, r *http.Request) (string, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return "", errors.NewValidationError("request body could not be read").WithCause(err)
	}
	return string(data), nil
}

// pathID validates a positive numeric path parameter
func (b base) pathID(r *http.Request, name string) (int64, error) {
	return validators.PositiveID(name, chi.URLParam(r, name))
}

// pageParams validates limit and lastEvaluatedKey
func (b base) pageParams(r *http.Request) (common.PageParams, error) {
	page, err := common.ExtractPageParams(r)
	if err != nil {
		return page, errors.NewValidationError(err.Error()).WithDetail("field", common.LimitParam)
	}
	return page, nil
}

// caller returns the claims stored by the authentication middleware
func (b base) caller(r *http.Request) *auth.Claims {
	claims, _ := auth.ClaimsFromContext(r.Context())
	return claims
}

func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	b.errors.Handle(w, r, err)
}

// queryFilters returns the non-empty query parameters, first value only
func queryFilters(r *http.Request) map[string]string {
	out := map[string]string{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 && v[0] != "" {
			out[k] = v[0]
		}
	}
	return out
}

// respondPage writes a list result
func respondPage[T any](w http.ResponseWriter, page *services.Page[T]) {
	common.RespondJSON(w, http.StatusOK, common.NewPaginatedResult(page.Items, len(page.Items), page.NextCursor))
}

// MethodNotAllowed answers routes that exist for other methods
func MethodNotAllowed(errHandler *errors.ErrorHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		errHandler.Handle(w, r, errors.NewMethodNotAllowedError(r.Method))
	}
}

// NotFound answers unknown routes
func NotFound(errHandler *errors.ErrorHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		errHandler.Handle(w, r, errors.NewNotFoundError("route "+r.URL.Path))
	}
}
