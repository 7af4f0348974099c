package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// RecordedRequest is a request as the fake API received it.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// APIServer is a fake REST API served over a real local listener.
type APIServer struct {
	server *httptest.Server
	engine *gin.Engine

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewAPIServer starts a gin router configured by register and closes it when
// the test ends.
func NewAPIServer(t testing.TB, register func(r *gin.Engine)) *APIServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &APIServer{engine: gin.New()}
	s.engine.Use(s.record)
	if register != nil {
		register(s.engine)
	}

	s.server = httptest.NewServer(s.engine)
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the base URL of the server.
func (s *APIServer) URL() string {
	return s.server.URL
}

// Close shuts the server down early, e.g. to provoke connection failures.
func (s *APIServer) Close() {
	s.server.Close()
}

// Requests returns a copy of all recorded requests in arrival order.
func (s *APIServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or false if none arrived.
func (s *APIServer) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *APIServer) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	s.mu.Unlock()

	c.Next()
}

// JSON responds with status and body encoded as JSON.
func JSON(status int, body any) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(status, body)
	}
}

// Raw responds with status and a verbatim body.
func Raw(status int, contentType, body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(status, contentType, []byte(body))
	}
}

// Echo responds 200 with the request's method, query, headers and body.
func Echo() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		headers := make(map[string]string, len(c.Request.Header))
		for k := range c.Request.Header {
			headers[k] = c.GetHeader(k)
		}
		c.JSON(http.StatusOK, gin.H{
			"method":  c.Request.Method,
			"query":   c.Request.URL.Query(),
			"headers": headers,
			"body":    string(body),
		})
	}
}
