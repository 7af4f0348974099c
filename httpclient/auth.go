package httpclient

import (
	"encoding/base64"
)

// AuthorizationHeader is the conventional auth header name.
const AuthorizationHeader = "Authorization"

// BearerValue formats token as a bearer credential.
func BearerValue(token string) string {
	return "Bearer " + token
}

// BasicValue formats a basic auth credential.
func BasicValue(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// Bearer wraps a token provider so each request carries "Bearer <token>".
// An empty token yields an empty header value.
func Bearer(token func() string) func() string {
	return func() string {
		t := token()
		if t == "" {
			return ""
		}
		return BearerValue(t)
	}
}
