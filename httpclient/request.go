package httpclient

import (
	"io"
)

// Request carries the optional per-call settings of a request. A zero
// Request is valid and uses the client defaults.
type Request struct {
	// Payload becomes query parameters for GET and DELETE and a JSON body for
	// POST and PUT.
	Payload map[string]any
	// Headers override the client's base headers for this call.
	Headers map[string]string
	// Stream leaves the body of a successful response open for LogStream.
	Stream bool
	// Body is sent verbatim for POST and PUT, replacing the JSON payload.
	Body io.Reader
	// Multipart is encoded into the body when Body is nil.
	Multipart *MultipartBody
	// LogOnError overrides Config.LogOnError.
	LogOnError *bool
	// FailFast overrides Config.FailFast.
	FailFast *bool
}

// upload reports whether the call carries a raw body instead of a JSON payload.
func (r *Request) upload() bool {
	return r.Body != nil || r.Multipart != nil
}

// RequestOption customizes a Request.
type RequestOption func(*Request)

// NewRequest builds a fresh Request from opts.
func NewRequest(opts ...RequestOption) Request {
	var r Request
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// WithPayload sets the request payload.
func WithPayload(payload map[string]any) RequestOption {
	return func(r *Request) { r.Payload = payload }
}

// WithHeaders sets request-specific header overrides.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *Request) { r.Headers = headers }
}

// WithStream marks the request as streaming.
func WithStream() RequestOption {
	return func(r *Request) { r.Stream = true }
}

// WithBody sets a raw request body.
func WithBody(body io.Reader) RequestOption {
	return func(r *Request) { r.Body = body }
}

// WithMultipart sets a multipart/form-data body.
func WithMultipart(mp *MultipartBody) RequestOption {
	return func(r *Request) { r.Multipart = mp }
}

// WithLogOnError overrides error logging for this call.
func WithLogOnError(enabled bool) RequestOption {
	return func(r *Request) { r.LogOnError = &enabled }
}

// WithFailFast overrides the fail-fast policy for this call.
func WithFailFast(enabled bool) RequestOption {
	return func(r *Request) { r.FailFast = &enabled }
}
