package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"vector-pai/application/services"
	"vector-pai/domain/entities"
	"vector-pai/pkg/common"
	"vector-pai/pkg/errors"
)

// ContractHandler handles contract requests
type ContractHandler struct {
	base
	service *services.ContractService
}

// NewContractHandler creates a new contract handler
func NewContractHandler(service *services.ContractService, errHandler *errors.ErrorHandler, logger *zap.Logger) *ContractHandler {
	return &ContractHandler{base: newBase(errHandler, logger), service: service}
}

// Create handles POST /opr/contrato
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := entities.ParseContractCreate(body)
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

// Get handles GET /opr/contrato/{id_empresa}
func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id_empresa")
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

// List handles GET /opr/contrato?id_origen=&id_contrato=
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := entities.ParseContractFilter(queryFilters(r))
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

// Update handles PUT /opr/contrato/{id_empresa}
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id_empresa")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	patch, err := entities.ParseContractUpdate(id, body)
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

// Delete handles DELETE /opr/contrato/{id_empresa}
func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id_empresa")
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
