package authurl_test

import (
	"net/url"
	"testing"

	"github.com/jrsteele09/go-spotify-auth/authurl"
	autherrors "github.com/jrsteele09/go-spotify-auth/internal/errors"
	"github.com/jrsteele09/go-spotify-auth/internal/utils"
	"github.com/jrsteele09/go-spotify-auth/oauthmodel"
	"github.com/stretchr/testify/require"
)

func TestBuildAuthorizationURL_RoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		clientID    string
		scopes      string
		redirectURI string
	}{
		{name: "custom scheme", clientID: "cid", scopes: "user-read-private", redirectURI: "myapp://callback"},
		{name: "loopback", clientID: "4f3c2a", scopes: "user-top-read playlist-read-private", redirectURI: "http://127.0.0.1:8080/callback"},
		{name: "reserved characters", clientID: "a&b=c", scopes: "scope+with spaces/and?marks", redirectURI: "app://cb?x=1&y=2#frag"},
		{name: "unicode", clientID: "cliënt", scopes: "ünïcode", redirectURI: "app://ça"},
		{name: "empty values", clientID: "", scopes: "", redirectURI: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := authurl.BuildAuthorizationURL(tt.clientID, tt.scopes, utils.Ptr(tt.redirectURI))
			require.NoError(t, err)

			u, err := url.Parse(raw)
			require.NoError(t, err)
			require.Equal(t, "https", u.Scheme)
			require.Equal(t, "accounts.spotify.com", u.Host)
			require.Equal(t, "/authorize", u.Path)

			q := u.Query()
			require.Len(t, q, 5)
			require.Equal(t, tt.clientID, q.Get("client_id"))
			require.Equal(t, "code", q.Get("response_type"))
			require.Equal(t, tt.redirectURI, q.Get("redirect_uri"))
			require.Equal(t, tt.scopes, q.Get("scope"))
			require.Equal(t, "true", q.Get("show_dialog"))
		})
	}
}

func TestBuildAuthorizationURL_NilRedirectIsEmpty(t *testing.T) {
	raw, err := authurl.BuildAuthorizationURL("cid", "user-read-private", nil)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Contains(t, u.Query(), "redirect_uri")
	require.Equal(t, "", u.Query().Get("redirect_uri"))
}

func TestBuild_MalformedBaseURL(t *testing.T) {
	req := authurl.NewAuthorizationRequest("cid", "scope", utils.Ptr("app://cb"))

	for _, base := range []string{"", "/authorize", "http://[::1"} {
		req.BaseURL = base
		_, err := authurl.Build(req)
		require.ErrorIs(t, err, autherrors.ErrMalformedInput, base)
	}
}

func TestBuild_CustomBaseURL(t *testing.T) {
	req := authurl.NewAuthorizationRequest("cid", "scope", utils.Ptr("app://cb"))
	req.BaseURL = "http://127.0.0.1:9999/authorize"
	req.ShowDialog = false

	raw, err := authurl.Build(req)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", u.Host)
	require.Equal(t, "false", u.Query().Get("show_dialog"))
	require.Equal(t, string(oauthmodel.CodeResponseType), u.Query().Get("response_type"))
}
