package entities

import (
	"fmt"

	v "vector-pai/domain/validators"
	"vector-pai/pkg/errors"
	"vector-pai/pkg/utils"
)

const (
	maxRecipients = 50
	subjectMax    = 100
)

// EmailRequest is a validated outgoing email. Subject is plain text and
// BodyHTML has passed the HTML sanitizer.
type EmailRequest struct {
	To       []string
	Subject  string
	BodyHTML string
}

// ParseEmailRequest validates a send-email body. to is a single address or a
// list of at most 50 addresses.
func ParseEmailRequest(raw string) (EmailRequest, error) {
	body, err := v.ParseBody(raw)
	if err != nil {
		return EmailRequest{}, err
	}

	var req EmailRequest
	if req.To, err = parseRecipients(body["to"]); err != nil {
		return EmailRequest{}, err
	}
	if req.Subject, err = v.Sanitized("subject", body["subject"], subjectMax); err != nil {
		return EmailRequest{}, err
	}

	html, ok := body["bodyHtml"].(string)
	if !ok {
		return EmailRequest{}, errors.NewFieldError("bodyHtml", "is required")
	}
	if req.BodyHTML = utils.SafeHTML(html); req.BodyHTML == "" {
		return EmailRequest{}, errors.NewFieldError("bodyHtml", "must not be empty after sanitizing")
	}
	return req, nil
}

func parseRecipients(raw interface{}) ([]string, error) {
	switch to := raw.(type) {
	case string:
		addr, err := v.Email("to", to)
		if err != nil {
			return nil, err
		}
		return []string{addr}, nil
	case []interface{}:
		if len(to) == 0 {
			return nil, errors.NewFieldError("to", "must contain at least one address")
		}
		if len(to) > maxRecipients {
			return nil, errors.NewFieldError("to", fmt.Sprintf("must contain at most %d addresses", maxRecipients))
		}
		addrs := make([]string, 0, len(to))
		for i, item := range to {
			addr, err := v.Email(fmt.Sprintf("to[%d]", i), item)
			if err != nil {
				return nil, err
			}
			addrs = append(addrs, addr)
		}
		return addrs, nil
	case nil:
		return nil, errors.NewFieldError("to", "is required")
	default:
		return nil, errors.NewFieldError("to", "must be an email address or a list of addresses")
	}
}

// LoginRequest carries user credentials
type LoginRequest struct {
	Email    string
	Password string
}

// ParseLoginRequest validates a login body
func ParseLoginRequest(raw string) (LoginRequest, error) {
	body, err := v.ParseBody(raw)
	if err != nil {
		return LoginRequest{}, err
	}

	var req LoginRequest
	if req.Email, err = v.Email("email", body["email"]); err != nil {
		return LoginRequest{}, err
	}
	if req.Password, err = v.Secret("password", body["password"]); err != nil {
		return LoginRequest{}, err
	}
	return req, nil
}
