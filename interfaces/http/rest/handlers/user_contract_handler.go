package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vector-pai/application/services"
	"vector-pai/domain/entities"
	"vector-pai/pkg/common"
	"vector-pai/pkg/errors"
)

// UserContractPath addresses one link
const UserContractPath = "/{id_usuario}/{id_origen}/{id_contrato}"

// UserContractHandler handles user-contract link requests
type UserContractHandler struct {
	base
	service *services.UserContractService
}

// NewUserContractHandler creates a new user-contract handler
func NewUserContractHandler(service *services.UserContractService, errHandler *errors.ErrorHandler, logger *zap.Logger) *UserContractHandler {
	return &UserContractHandler{base: newBase(errHandler, logger), service: service}
}

func (h *UserContractHandler) ref(r *http.Request) (entities.UserContractRef, error) {
	return entities.ParseUserContractRef(
		chi.URLParam(r, "id_usuario"),
		chi.URLParam(r, "id_origen"),
		chi.URLParam(r, "id_contrato"),
	)
}

func (h *UserContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := entities.ParseUserContractCreate(body)
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

func (h *UserContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref, err := h.ref(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	item, err := h.service.Get(r.Context(), ref)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, item)
}

// List handles GET /opr/usuario-contrato?id_usuario= or ?id_contrato=
func (h *UserContractHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := entities.ParseUserContractFilter(queryFilters(r))
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

func (h *UserContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	ref, err := h.ref(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	changes, err := entities.ParseUserContractUpdate(ref, body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	item, err := h.service.Update(r.Context(), ref, changes, h.caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, item)
}

func (h *UserContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ref, err := h.ref(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.service.Delete(r.Context(), ref, h.caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
