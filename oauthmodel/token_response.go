package oauthmodel

import (
	"encoding/json"
	"errors"
)

var (
	errTokenNotJSONObject = errors.New("token response is not a JSON object")
	errAccessTokenMissing = errors.New("access_token missing")
	errAccessTokenType    = errors.New("access_token is not a string")
)

// TokenResponse is the token endpoint's JSON body.
// Only access_token is interpreted; every other field is kept untouched in Raw.
type TokenResponse struct {
	// AccessToken is the bearer credential for subsequent API calls.
	// Usage: Authorization: Bearer <access_token>
	AccessToken string

	// Raw is the full decoded body, including token_type, expires_in, refresh_token and scope.
	Raw map[string]any
}

// ParseTokenResponse decodes body and extracts the access token.
func ParseTokenResponse(body []byte) (TokenResponse, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return TokenResponse{}, err
	}
	if raw == nil {
		return TokenResponse{}, errTokenNotJSONObject
	}

	value, ok := raw[ParamAccessToken]
	if !ok {
		return TokenResponse{Raw: raw}, errAccessTokenMissing
	}
	accessToken, ok := value.(string)
	if !ok {
		return TokenResponse{Raw: raw}, errAccessTokenType
	}
	return TokenResponse{AccessToken: accessToken, Raw: raw}, nil
}
