package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/savvy/logger"
	"github.com/kbukum/savvy/observability"
	"github.com/kbukum/savvy/termination"
	"github.com/kbukum/savvy/util"
)

// Client issues GET, POST, PUT and DELETE requests against a base URL with
// composed headers and authentication. It is safe for concurrent use.
type Client struct {
	httpClient   *http.Client
	streamClient *http.Client
	config       Config
	log          logger.Sink
	metrics      *observability.Metrics
}

// New creates a new REST client with the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Headers = canonicalHeaders(cfg.Headers)

	transport := http.DefaultTransport.(*http.Transport).Clone()

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		// Streaming bodies outlive the request; the context bounds them instead.
		streamClient: &http.Client{Transport: transport},
		config:       cfg,
		log:          logger.OrDefault(cfg.Logger, "httpclient"),
		metrics:      observability.DefaultMetrics(),
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// BaseHeaders returns a copy of the configured base headers.
func (c *Client) BaseHeaders() map[string]string {
	return canonicalHeaders(c.config.Headers)
}

// Get issues a GET request; the payload becomes query parameters.
func (c *Client) Get(ctx context.Context, route string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, MethodGet, route, NewRequest(opts...))
}

// Post issues a POST request; the payload becomes a JSON body.
func (c *Client) Post(ctx context.Context, route string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, MethodPost, route, NewRequest(opts...))
}

// Put issues a PUT request; the payload becomes a JSON body.
func (c *Client) Put(ctx context.Context, route string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, MethodPut, route, NewRequest(opts...))
}

// Delete issues a DELETE request; the payload becomes query parameters.
func (c *Client) Delete(ctx context.Context, route string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, MethodDelete, route, NewRequest(opts...))
}

// Do issues method against BaseURL+route.
//
// A completed exchange always yields a *Response, even for failed statuses.
// The error is a *termination.Signal when the call was interrupted or
// fail-fast applies, and a classified *Error for transport failures otherwise.
func (c *Client) Do(ctx context.Context, method Method, route string, req Request) (*Response, error) {
	p := policy{
		logOnError: util.DerefOr(req.LogOnError, c.config.logOnError()),
		failFast:   util.DerefOr(req.FailFast, c.config.FailFast),
		log:        c.log,
		terminate:  c.config.Terminate,
		requestID:  uuid.NewString(),
	}

	ctx, op := observability.StartOperation(ctx, observability.SpanHTTPRequest,
		attribute.String(observability.AttrHTTPMethod, method.String()),
		attribute.String(observability.AttrHTTPRoute, route),
		attribute.String(observability.AttrRequestID, p.requestID),
	)

	resp, err := c.do(ctx, method, route, req, p)

	status := 0
	if resp != nil {
		status = resp.StatusCode
		op.SetAttributes(attribute.Int(observability.AttrHTTPStatus, status))
	}
	c.metrics.RecordHTTPRequest(ctx, method.String(), status, op.Duration())
	op.End(ctx, spanError(resp, err))

	return resp, err
}

func (c *Client) do(ctx context.Context, method Method, route string, req Request, p policy) (*Response, error) {
	httpReq, buildErr := c.buildRequest(ctx, method, route, req)
	if buildErr != nil {
		return nil, c.transportFailure(ctx, buildErr, p)
	}

	hc := c.httpClient
	if req.Stream {
		hc = c.streamClient
	}

	raw, err := hc.Do(httpReq)
	if err != nil {
		return nil, c.transportFailure(ctx, classifyTransportError(err), p)
	}

	return newResponse(ctx, raw, req.Stream, req.upload(), p)
}

// transportFailure applies the interrupt, logging and fail-fast policy to a
// request that produced no response.
func (c *Client) transportFailure(ctx context.Context, err *Error, p policy) error {
	if termination.IsInterrupted(ctx) {
		return termination.Request(p.terminate, 0, termination.ErrInterrupted)
	}
	if p.logOnError {
		p.log.Error("Unknown Error while making request: "+err.Error(), logger.Fields(
			logger.FieldRequestID, p.requestID,
		))
	}
	if p.failFast {
		return termination.Request(p.terminate, 1, err)
	}
	return err
}

// ComposeHeaders builds the header set for one request: a fresh copy of the
// base headers, then overrides, then the auth header.
func (c *Client) ComposeHeaders(overrides map[string]string) map[string]string {
	headers := mergeHeaders(canonicalHeaders(c.config.Headers), overrides)

	if c.config.AuthHeaderName == "" {
		return headers
	}
	name := http.CanonicalHeaderKey(c.config.AuthHeaderName)
	switch {
	case c.config.AuthValueFunc != nil:
		headers[name] = c.config.AuthValueFunc()
	case c.config.AuthHeaderValue != "":
		headers[name] = c.config.AuthHeaderValue
	}
	return headers
}

func (c *Client) buildRequest(ctx context.Context, method Method, route string, req Request) (*http.Request, *Error) {
	if !method.valid() {
		return nil, NewRequestError(fmt.Errorf("unsupported method %q", method))
	}

	u, err := url.Parse(c.config.BaseURL + route)
	if err != nil {
		return nil, NewRequestError(err)
	}

	headers := c.ComposeHeaders(req.Headers)

	var body io.Reader
	if method.sendsQuery() {
		u.RawQuery = encodeQuery(u.Query(), req.Payload)
	} else {
		var contentType string
		body, contentType, err = encodeBody(req)
		if err != nil {
			return nil, NewRequestError(fmt.Errorf("encode body: %w", err))
		}
		if contentType != "" && (req.Multipart != nil || headers["Content-Type"] == "") {
			headers["Content-Type"] = contentType
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method.String(), u.String(), body)
	if err != nil {
		return nil, NewRequestError(err)
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}

// encodeBody picks the POST/PUT body: a raw body verbatim, an encoded
// multipart form, or the JSON payload ({} when nil).
func encodeBody(req Request) (io.Reader, string, error) {
	switch {
	case req.Body != nil:
		return req.Body, "", nil
	case req.Multipart != nil:
		return req.Multipart.encode()
	}

	payload := req.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}

// encodeQuery merges payload into q. Nil values are skipped and slices
// become repeated keys.
func encodeQuery(q url.Values, payload map[string]any) string {
	for k, v := range payload {
		if v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				item := rv.Index(i).Interface()
				if item != nil {
					q.Add(k, formatValue(item))
				}
			}
			continue
		}
		q.Add(k, formatValue(v))
	}
	return q.Encode()
}

func spanError(resp *Response, err error) error {
	if err != nil || resp == nil {
		return err
	}
	if se := resp.StatusError(); se != nil {
		return se
	}
	return nil
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
