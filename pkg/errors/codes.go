package errors

// Envelope error codes, one per outcome class.
const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeConflict         = "CONFLICT"
	CodeThrottling       = "TOO_MANY_REQUESTS"
	CodeExternal         = "EXTERNAL_SERVICE_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
)
