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

// PeriodHandler handles the period catalog
type PeriodHandler struct {
	base
	service *services.PeriodService
}

// NewPeriodHandler creates a new period handler
func NewPeriodHandler(service *services.PeriodService, errHandler *errors.ErrorHandler, logger *zap.Logger) *PeriodHandler {
	return &PeriodHandler{base: newBase(errHandler, logger), service: service}
}

func (h *PeriodHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := entities.ParsePeriodCreate(body)
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

func (h *PeriodHandler) Get(w http.ResponseWriter, r *http.Request) {
	periodo, err := entities.ParsePeriod(chi.URLParam(r, "periodo"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	item, err := h.service.Get(r.Context(), periodo)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, item)
}

func (h *PeriodHandler) List(w http.ResponseWriter, r *http.Request) {
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
