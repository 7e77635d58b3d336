package transport

// ErrorResponse is the JSON body returned for any non-2xx outcome.
// Internal failures carry only the code and request id; no detail leaks.
type ErrorResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message,omitempty"`
	Fields    []FieldError `json:"fields,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}

// NewError builds an error response body.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message}
}

// NewValidationError builds a 400 body carrying per-field failures.
func NewValidationError(fields []FieldError) ErrorResponse {
	return ErrorResponse{
		Code:    "INVALID",
		Message: "request validation failed",
		Fields:  fields,
	}
}
