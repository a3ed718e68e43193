// Package authurl builds the provider's authorization URL and reads parameters back out of redirect URLs.
// Everything here is pure: no I/O and no shared state.
package authurl

import (
	"net/url"
	"strconv"

	autherrors "github.com/jrsteele09/go-spotify-auth/internal/errors"
	"github.com/jrsteele09/go-spotify-auth/internal/utils"
	"github.com/jrsteele09/go-spotify-auth/oauthmodel"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/spotify"
)

// NewAuthorizationRequest describes a Spotify authorize request.
// A nil redirectURI is sent as an empty redirect_uri value.
func NewAuthorizationRequest(clientID, scopes string, redirectURI *string) oauthmodel.AuthorizationRequest {
	return oauthmodel.AuthorizationRequest{
		BaseURL:      spotify.Endpoint.AuthURL,
		ClientID:     clientID,
		ResponseType: oauthmodel.CodeResponseType,
		RedirectURI:  utils.Deref(redirectURI, ""),
		Scope:        scopes,
		ShowDialog:   true,
	}
}

// BuildAuthorizationURL returns the Spotify /authorize URL for the given client.
func BuildAuthorizationURL(clientID, scopes string, redirectURI *string) (string, error) {
	return Build(NewAuthorizationRequest(clientID, scopes, redirectURI))
}

// Build assembles the authorize URL for req. Values are query-encoded.
func Build(req oauthmodel.AuthorizationRequest) (string, error) {
	base, err := url.Parse(req.BaseURL)
	if err != nil {
		return "", autherrors.Join(autherrors.ErrMalformedInput, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", autherrors.Wrapf(autherrors.ErrMalformedInput, "authorize endpoint %q is not absolute", req.BaseURL)
	}

	cfg := oauth2.Config{
		ClientID: req.ClientID,
		Endpoint: oauth2.Endpoint{AuthURL: base.String()},
	}
	raw := cfg.AuthCodeURL("",
		oauth2.SetAuthURLParam(oauthmodel.ParamResponseType, string(req.ResponseType)),
		oauth2.SetAuthURLParam(oauthmodel.ParamRedirectURI, req.RedirectURI),
		oauth2.SetAuthURLParam(oauthmodel.ParamScope, req.Scope),
		oauth2.SetAuthURLParam(oauthmodel.ParamShowDialog, strconv.FormatBool(req.ShowDialog)),
	)

	if _, err := url.Parse(raw); err != nil {
		return "", autherrors.Join(autherrors.ErrMalformedInput, err)
	}
	return raw, nil
}
