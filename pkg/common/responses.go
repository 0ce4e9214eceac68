package common

import (
	"encoding/json"
	"net/http"

	"vector-pai/pkg/utils"
)

// CORS headers attached to every response
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token,Authentication",
	"Access-Control-Allow-Methods": "GET,POST,PUT,DELETE,OPTIONS",
}

// APIResponse represents the uniform response envelope
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ApplyCORS sets the CORS headers on h
func ApplyCORS(h http.Header) {
	for k, v := range CORSHeaders {
		h.Set(k, v)
	}
}

// RespondJSON sends a success envelope carrying data
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	RespondWithMessage(w, status, data, "")
}

// RespondWithMessage sends a success envelope with a human readable message
func RespondWithMessage(w http.ResponseWriter, status int, data interface{}, message string) {
	writeEnvelope(w, status, APIResponse{
		Success:   status >= 200 && status < 300,
		Data:      data,
		Message:   message,
		Timestamp: utils.NowTimestamp(),
	})
}

// RespondError sends an error envelope
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondErrorWithDetails(w, status, code, message, nil)
}

// RespondErrorWithDetails sends an error envelope with additional details
func RespondErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	writeEnvelope(w, status, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Message: message,
			Code:    code,
			Details: details,
		},
		Timestamp: utils.NowTimestamp(),
	})
}

// RespondPreflight answers an OPTIONS request
func RespondPreflight(w http.ResponseWriter) {
	ApplyCORS(w.Header())
	w.WriteHeader(http.StatusOK)
}

func writeEnvelope(w http.ResponseWriter, status int, response APIResponse) {
	ApplyCORS(w.Header())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// ExtractRequestID extracts the request ID from the request
func ExtractRequestID(r *http.Request) string {
	if id, ok := GetRequestID(r.Context()); ok {
		return id
	}
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return r.Header.Get("X-Amzn-Trace-Id")
}
