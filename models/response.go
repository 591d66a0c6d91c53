package models

// Response is the envelope every CLI verb prints.
type Response struct {
	Verb  string     `json:"verb" yaml:"verb"`
	Data  any        `json:"data" yaml:"data"`
	Error *ErrorInfo `json:"error,omitempty" yaml:"error,omitempty"`
}

// ErrorInfo provides structured error information.
type ErrorInfo struct {
	Type             string   `json:"error_type" yaml:"error_type"`
	Message          string   `json:"message" yaml:"message"`
	SuggestedActions []string `json:"suggested_actions,omitempty" yaml:"suggested_actions,omitempty"`
}

// Error types used in Response envelopes.
const (
	ErrorTypeNotFound   = "not_found"
	ErrorTypeNoData     = "no_data"
	ErrorTypeInvalid    = "invalid_input"
	ErrorTypeDatabase   = "database_error"
	ErrorTypeRules      = "rules_error"
	ErrorTypeUnexpected = "internal_error"
)

// NewDataResponse wraps a successful result.
func NewDataResponse(verb string, data any) Response {
	return Response{Verb: verb, Data: data}
}

// NewErrorResponse builds a response carrying only an error.
func NewErrorResponse(verb, errType, message string, actions ...string) Response {
	return Response{
		Verb: verb,
		Error: &ErrorInfo{
			Type:             errType,
			Message:          message,
			SuggestedActions: actions,
		},
	}
}

// NewNotFoundResponse is returned for missing projects, including projects the
// caller does not own.
func NewNotFoundResponse(verb, what string) Response {
	return NewErrorResponse(verb, ErrorTypeNotFound, what+" not found",
		"Check the id", "Make sure the project belongs to the requesting user")
}

// NewNoDataResponse is returned when there is not enough history to answer.
func NewNoDataResponse(verb, message string) Response {
	return NewErrorResponse(verb, ErrorTypeNoData, message,
		"Run another crawl and try again")
}
