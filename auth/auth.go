package auth

// ValueFunc produces an auth header value. It is evaluated for every request.
type ValueFunc = func() string

// Static returns a ValueFunc that always yields value.
func Static(value string) ValueFunc {
	return func() string { return value }
}
