package types

// SuccessEnvelope wraps every successful API response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the error payload returned by the storefront API.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps error responses.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
