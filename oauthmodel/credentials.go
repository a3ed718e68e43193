package oauthmodel

// ClientCredentials identify the registered application to the provider.
// They are fixed for the lifetime of a flow coordinator.
type ClientCredentials struct {
	// ClientID is the public application identifier.
	// Example: "4f3c2a..." as issued by the Spotify developer dashboard
	ClientID string

	// ClientSecret authenticates the token request.
	// Security: Never log or expose this value
	ClientSecret string

	// Scopes is the space separated scope string requested on authorization.
	Scopes string
}
