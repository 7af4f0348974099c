// Package httpclient provides a REST client that standardizes header
// composition, authentication, JSON parsing and error reporting.
//
// Headers for each request are composed from a fresh copy of the base
// headers, then the request overrides, then the auth header. GET and DELETE
// send the payload as query parameters; POST and PUT send it as JSON unless a
// raw or multipart body is given.
//
// A response is OK only for status 200 or 201. Failed responses are logged
// once, and with fail-fast enabled the call returns a *termination.Signal so
// the host decides how to exit.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL:        "https://api.example.com",
//	    AuthHeaderName: httpclient.AuthorizationHeader,
//	    AuthValueFunc:  httpclient.Bearer(tokens.Current),
//	})
//
//	resp, err := client.Get(ctx, "/users",
//	    httpclient.WithPayload(map[string]any{"page": 2}),
//	)
//	if resp.OK {
//	    name, _ := resp.Search("users[0].name")
//	}
//
// # Streaming
//
//	resp, err := client.Get(ctx, "/builds/42/logs", httpclient.WithStream())
//	if err == nil && resp.OK {
//	    err = resp.LogStream(ctx, httpclient.DefaultChunkSize)
//	}
package httpclient
