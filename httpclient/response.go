package httpclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/jmespath/go-jmespath"

	"github.com/kbukum/savvy/logger"
	"github.com/kbukum/savvy/termination"
)

const (
	// DefaultChunkSize is the LogStream read size when none is given.
	DefaultChunkSize = 10
)

// policy is the resolved error handling of one call.
type policy struct {
	logOnError bool
	failFast   bool
	log        logger.Sink
	terminate  termination.Handler
	requestID  string
}

// Response is the normalized result of a completed HTTP exchange.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers, first value per key.
	Headers map[string]string
	// OK is true only for 200 and 201.
	OK bool
	// JSON is the parsed body: map[string]any or []any. It is nil when a
	// successful streaming or upload call skipped parsing, and an empty map
	// when the body is not usable JSON.
	JSON any
	// Raw is the transport response. Its body stays open only for successful
	// streaming calls; otherwise it replays the buffered bytes.
	Raw *http.Response
	// RequestID correlates logs and spans of this call.
	RequestID string

	body      []byte
	log       logger.Sink
	terminate termination.Handler
}

func newResponse(ctx context.Context, raw *http.Response, streaming, upload bool, p policy) (*Response, error) {
	r := &Response{
		StatusCode: raw.StatusCode,
		Headers:    flattenHeaders(raw.Header),
		OK:         isSuccess(raw.StatusCode),
		Raw:        raw,
		RequestID:  p.requestID,
		log:        p.log,
		terminate:  p.terminate,
	}

	if !streaming || !r.OK {
		if err := r.buffer(); err != nil && termination.IsInterrupted(ctx) {
			return nil, termination.Request(p.terminate, 0, termination.ErrInterrupted)
		}
	}
	if !((streaming || upload) && r.OK) {
		r.JSON = parseJSON(r.body)
	}

	if r.OK {
		return r, nil
	}
	if p.logOnError {
		r.log.Error(r.errorMessage(), logger.Fields(
			logger.FieldRequestID, r.RequestID,
			logger.FieldStatus, r.StatusCode,
		))
	}
	if p.failFast {
		return r, termination.Request(p.terminate, 1, r.StatusError())
	}
	return r, nil
}

// buffer drains and closes the transport body, leaving a replayable copy.
func (r *Response) buffer() error {
	data, err := io.ReadAll(r.Raw.Body)
	_ = r.Raw.Body.Close()
	if err != nil {
		data = nil
	}
	r.body = data
	r.Raw.Body = io.NopCloser(bytes.NewReader(data))
	return err
}

// Map returns the parsed body as an object, or nil when it is not one.
func (r *Response) Map() map[string]any {
	m, _ := r.JSON.(map[string]any)
	return m
}

// StatusError classifies a failed response. It returns nil when OK.
func (r *Response) StatusError() *Error {
	if r.OK {
		return nil
	}
	return ClassifyStatus(r.StatusCode, r.errorMessage())
}

// Search evaluates a JMESPath expression against the parsed body.
func (r *Response) Search(expr string) (any, error) {
	return jmespath.Search(expr, r.JSON)
}

// Close releases the response body.
func (r *Response) Close() error {
	if r.Raw == nil || r.Raw.Body == nil {
		return nil
	}
	return r.Raw.Body.Close()
}

// LogStream logs every non-empty line of the body at info level, reading
// chunkSize bytes at a time, and closes the body when done. Lines have no
// length limit; a long line is buffered until its newline arrives.
//
// An interrupt of ctx returns a *termination.Signal with code 0. Any other
// read failure is logged and swallowed.
func (r *Response) LogStream(ctx context.Context, chunkSize int) error {
	if r.Raw == nil || r.Raw.Body == nil {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	body := r.Raw.Body
	defer func() { _ = body.Close() }()
	stop := context.AfterFunc(ctx, func() { _ = body.Close() })
	defer stop()

	reader := bufio.NewReaderSize(body, chunkSize)
	var err error
	for err == nil && !termination.IsInterrupted(ctx) {
		var line []byte
		line, err = reader.ReadBytes('\n')
		line = bytes.TrimSuffix(bytes.TrimSuffix(line, []byte("\n")), []byte("\r"))
		if len(line) > 0 && !termination.IsInterrupted(ctx) {
			r.log.Info(string(line))
		}
	}

	if termination.IsInterrupted(ctx) {
		return termination.Request(r.terminate, 0, termination.ErrInterrupted)
	}
	if err != nil && err != io.EOF {
		r.log.Error("Error while parsing logs: "+err.Error(), logger.Fields(
			logger.FieldRequestID, r.RequestID,
		))
	}
	return nil
}

// errorMessage picks the failure log line: a truthy "log" field verbatim,
// otherwise a message built from "error", "code" and the status.
func (r *Response) errorMessage() string {
	fields := r.Map()
	if v := fields["log"]; truthy(v) {
		return formatValue(v)
	}

	msg := "Request failed"
	if v := fields["error"]; truthy(v) {
		msg += " with error: " + formatValue(v)
	}
	if v := fields["code"]; truthy(v) {
		msg += "; code=" + formatValue(v)
	}
	return msg + "; status=" + strconv.Itoa(r.StatusCode)
}

// parseJSON decodes body into an object or array. Anything else, including
// empty and falsy documents, yields an empty object.
func parseJSON(body []byte) any {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return map[string]any{}
	}
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		if len(t) > 0 {
			return t
		}
	}
	return map[string]any{}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any, []any:
		if data, err := json.Marshal(t); err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(v)
}
