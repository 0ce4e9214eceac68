package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"vector-pai/application/services"
	"vector-pai/domain/entities"
	"vector-pai/pkg/common"
	"vector-pai/pkg/errors"
)

// CatalogHandler serves a flat catalog whose items are addressed by idField
type CatalogHandler[T any] struct {
	base
	service *services.CatalogService[T]
	idField string
}

// NewCatalogHandler creates a handler for the catalog identified by idField
func NewCatalogHandler[T any](service *services.CatalogService[T], idField string, errHandler *errors.ErrorHandler, logger *zap.Logger) *CatalogHandler[T] {
	return &CatalogHandler[T]{
		base:    newBase(errHandler, logger),
		service: service,
		idField: idField,
	}
}

// IDParam is the route parameter name, e.g. "/{id_grupo}"
func (h *CatalogHandler[T]) IDParam() string {
	return "/{" + h.idField + "}"
}

// Create handles POST /
func (h *CatalogHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := entities.ParseCatalogCreate(h.idField, body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	item, err := h.service.Create(r.Context(), in, h.caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, item)
}

// Get handles GET /{id}
func (h *CatalogHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, h.idField)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, item)
}

// List handles GET /
func (h *CatalogHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.service.List(r.Context(), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondPage(w, result)
}

// Update handles PUT /{id}
func (h *CatalogHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, h.idField)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	changes, err := entities.ParseCatalogUpdate(h.idField, id, body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	item, err := h.service.Update(r.Context(), id, changes, h.caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /{id}
func (h *CatalogHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, h.idField)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.service.Delete(r.Context(), id, h.caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
