package oauthmodel

// ResponseType represents the OAuth 2.0 response type requested at the authorize endpoint.
type ResponseType string

const (
	// CodeResponseType requests an authorization code.
	// Example: /authorize?response_type=code&client_id=...
	CodeResponseType ResponseType = "code"
)

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for an access token.
	// Token request includes: code, redirect_uri, grant_type (client credentials in the Authorization header)
	AuthorizationCodeGrant GrantType = "authorization_code"
)

// Query and form parameter names used on the wire.
const (
	ParamClientID         = "client_id"
	ParamResponseType     = "response_type"
	ParamRedirectURI      = "redirect_uri"
	ParamScope            = "scope"
	ParamShowDialog       = "show_dialog"
	ParamCode             = "code"
	ParamGrantType        = "grant_type"
	ParamError            = "error"
	ParamErrorDescription = "error_description"
	ParamState            = "state"
	ParamAccessToken      = "access_token"
)

// AuthorizationRequest holds the values sent to the provider's /authorize endpoint.
// It exists only while the authorization URL is assembled and is never persisted.
type AuthorizationRequest struct {
	// BaseURL is the provider's authorize endpoint.
	// Example: "https://accounts.spotify.com/authorize"
	BaseURL string

	// ClientID identifies the application requesting authorization.
	// Required: Yes (not validated, an empty value still yields a syntactically valid URL)
	ClientID string

	// ResponseType is always "code" for this flow.
	ResponseType ResponseType

	// RedirectURI is where the provider sends the user after consent.
	// Example: "myapp://callback" or "http://127.0.0.1:8080/callback"
	// Note: an absent redirect URI is sent as an empty string
	RedirectURI string

	// Scope is the space separated list of requested permissions, passed through verbatim.
	// Example: "user-read-private user-top-read"
	Scope string

	// ShowDialog forces the consent dialog even if the user already approved the app.
	ShowDialog bool
}
