package types

// SuccessEnvelope wraps every successful HTTP payload so consumers always
// unwrap the same shape.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public face of a failed request: a stable machine code, a
// safe message, and optional structured details.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps APIError the same way SuccessEnvelope wraps data.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Success is shorthand for building the success envelope.
func Success(data any) SuccessEnvelope {
	return SuccessEnvelope{Data: data}
}
