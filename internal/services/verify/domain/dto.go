package domain

// JSON []byte fields travel as base64, the stdlib default

// SubmitInput is a verification request bound for the relay
type SubmitInput struct {
	Message   []byte `json:"message" validate:"required" example:"aGVsbG8="`
	Signature []byte `json:"signature" validate:"required" example:"c2lnbmF0dXJl"`
}

// SubmitAccepted acknowledges a dispatched request with its correlation key
type SubmitAccepted struct {
	Digest string `json:"digest" example:"9f2b4c0a...64 hex chars"`
}

// CallbackInput is what the relay delivers when the computation finishes
type CallbackInput struct {
	ImageID   string `json:"image_id" validate:"required,len=64,hexadecimal" example:"a3f1...64 hex chars"`
	Message   []byte `json:"message" validate:"required"`
	Signature []byte `json:"signature" validate:"required"`
	Result    bool   `json:"result"`
}

// CallbackAck reports how the delivered result was absorbed
type CallbackAck struct {
	Digest  string `json:"digest"`
	Outcome string `json:"outcome" example:"inserted"`
}

// QueryInput asks for a previously computed result
type QueryInput struct {
	Message   []byte `json:"message" validate:"required"`
	Signature []byte `json:"signature" validate:"required"`
}

// QueryResult is a computed verification verdict.
// Only ever returned when the result actually exists; an uncomputed
// request is a not_available error, never a false verdict.
type QueryResult struct {
	Digest string `json:"digest"`
	Result bool   `json:"result"`
}
