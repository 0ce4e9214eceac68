package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vector-pai/application/services"
	"vector-pai/domain/entities"
	"vector-pai/pkg/common"
	"vector-pai/pkg/errors"
	"vector-pai/pkg/utils"
)

// UserHandler handles application user requests. Activation codes never
// leave the service in a response.
type UserHandler struct {
	base
	service *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *services.UserService, errHandler *errors.ErrorHandler, logger *zap.Logger) *UserHandler {
	return &UserHandler{base: newBase(errHandler, logger), service: service}
}

func (h *UserHandler) userID(r *http.Request) (string, error) {
	return entities.ParseUserID("id_usuario", chi.URLParam(r, "id_usuario"))
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := entities.ParseUserCreate(body)
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

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.userID(r)
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

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
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

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.userID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	changes, err := entities.ParseUserUpdate(id, body, utils.Now())
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

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.userID(r)
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
