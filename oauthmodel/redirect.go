package oauthmodel

// RedirectResult holds the parameters parsed from the provider's redirect back to the client.
// Either CodePresent is set, or Error describes why authorization did not produce a code.
type RedirectResult struct {
	// Code is the short-lived authorization code to exchange at the token endpoint.
	// Example: "AQBx3k..." from myapp://callback?code=AQBx3k...
	Code string

	// CodePresent reports whether the code parameter appeared at all, even with an empty value.
	CodePresent bool

	// Error is the provider's error code when the user denied consent or the request was rejected.
	// Example: "access_denied"
	Error string

	// ErrorDescription is the optional human readable explanation of Error.
	ErrorDescription string

	// State echoes the state parameter if the provider returned one.
	State string
}

// Failed reports whether the provider redirected with an error instead of a code.
func (r RedirectResult) Failed() bool {
	return r.Error != ""
}
