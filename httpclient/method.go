package httpclient

import (
	"fmt"
	"net/http"
	"strings"
)

// Method is one of the four verbs the client supports.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

// String returns the HTTP verb.
func (m Method) String() string { return string(m) }

// sendsQuery reports whether the payload travels as query parameters.
func (m Method) sendsQuery() bool {
	return m == MethodGet || m == MethodDelete
}

func (m Method) valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	}
	return false
}

// ParseMethod converts a case-insensitive verb into a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.valid() {
		return "", NewRequestError(fmt.Errorf("unsupported method %q", s))
	}
	return m, nil
}
