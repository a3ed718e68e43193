package oauthmodel_test

import (
	"testing"

	"github.com/jrsteele09/go-spotify-auth/oauthmodel"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestParseTokenResponse(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantToken string
		wantErr   bool
	}{
		{name: "access token only", body: `{"access_token":"tok123"}`, wantToken: "tok123"},
		{name: "extra fields ignored", body: `{"access_token":"tok123","token_type":"Bearer","expires_in":3600}`, wantToken: "tok123"},
		{name: "not json", body: `<html>bad gateway</html>`, wantErr: true},
		{name: "json null", body: `null`, wantErr: true},
		{name: "json array", body: `["tok123"]`, wantErr: true},
		{name: "missing access token", body: `{"error":"invalid_grant"}`, wantErr: true},
		{name: "access token not a string", body: `{"access_token":42}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := oauthmodel.ParseTokenResponse([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantToken, resp.AccessToken)
			require.Equal(t, tt.wantToken, resp.Raw["access_token"])
		})
	}
}

func TestAuthOutcome_AccessToken(t *testing.T) {
	require.Equal(t, "tok", oauthmodel.Success(&oauth2.Token{AccessToken: "tok"}).AccessToken())
	require.Empty(t, oauthmodel.Failure(nil).AccessToken())
	require.Empty(t, oauthmodel.NoOutcome(nil).AccessToken())
	require.Equal(t, "none", oauthmodel.NoOutcome(nil).Kind.String())
}
