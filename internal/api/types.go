// Package api holds the JSON envelopes shared by every HTTP handler.
package api

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse reports rejected input keyed by field name.
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
