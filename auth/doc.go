// Package auth provides per-request authentication values for
// httpclient.Config.AuthValueFunc.
//
// Every provider is a func() string evaluated once per request, so rotating
// credentials are picked up without rebuilding the client:
//
//   - Static      a fixed value
//   - JWTSource   a freshly signed JWT per request (golang-jwt)
//   - OAuth2Value an access token from an oauth2.TokenSource, refreshed when
//     it expires
//
// Providers never fail loudly. A credential that cannot be produced is
// logged and yields "", which the client still sends: a configured provider
// always wins over a static header value.
package auth
