package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"vector-pai/application/services"
	"vector-pai/domain/entities"
	"vector-pai/pkg/common"
	"vector-pai/pkg/errors"
)

// ContextHandler serves the session endpoints under /contexto
type ContextHandler struct {
	base
	login *services.LoginService
	email *services.EmailService
}

// NewContextHandler creates a new context handler
func NewContextHandler(login *services.LoginService, email *services.EmailService, errHandler *errors.ErrorHandler, logger *zap.Logger) *ContextHandler {
	return &ContextHandler{base: newBase(errHandler, logger), login: login, email: email}
}

// Validate handles PUT /contexto/validate. The token was already verified by
// the authentication middleware; its claims are echoed back.
func (h *ContextHandler) Validate(w http.ResponseWriter, r *http.Request) {
	claims := h.caller(r)
	if claims == nil {
		h.fail(w, r, errors.NewAuthenticationError("missing authorization token"))
		return
	}
	common.RespondJSON(w, http.StatusOK, claims)
}

// Login handles POST /contexto/login
func (h *ContextHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	req, err := entities.ParseLoginRequest(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.login.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// SendEmail handles POST /contexto/send-email
func (h *ContextHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	req, err := entities.ParseEmailRequest(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.email.Send(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
