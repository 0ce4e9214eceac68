package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"vector-pai/application/services"
	"vector-pai/domain/entities"
	"vector-pai/pkg/common"
	"vector-pai/pkg/errors"
)

// CycleHandler handles contract cycle requests
type CycleHandler struct {
	base
	service *services.CycleService
}

// NewCycleHandler creates a new cycle handler
func NewCycleHandler(service *services.CycleService, errHandler *errors.ErrorHandler, logger *zap.Logger) *CycleHandler {
	return &CycleHandler{base: newBase(errHandler, logger), service: service}
}

func (h *CycleHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := entities.ParseCycleCreate(body)
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

func (h *CycleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id_ciclo")
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

func (h *CycleHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := entities.ParseCycleFilter(queryFilters(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.pageParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondPage(w, result)
}

func (h *CycleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id_ciclo")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	patch, err := entities.ParseCycleUpdate(id, body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	item, err := h.service.Update(r.Context(), id, patch, h.caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, item)
}

func (h *CycleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id_ciclo")
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
