package authurl

import (
	"net/url"
	"strings"

	"github.com/jrsteele09/go-spotify-auth/oauthmodel"
)

// ExtractQueryParameter returns the first value of the named query parameter.
// ok is false when the parameter is absent, appears without a value
// ("?code"), or rawURL cannot be parsed. "?code=" yields "" with ok true.
func ExtractQueryParameter(rawURL, name string) (value string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	return firstValue(u, name)
}

// ParseRedirect reads the authorization response parameters from a redirect URL.
func ParseRedirect(u *url.URL) oauthmodel.RedirectResult {
	var result oauthmodel.RedirectResult
	if u == nil {
		return result
	}
	result.Code, result.CodePresent = firstValue(u, oauthmodel.ParamCode)
	result.Error, _ = firstValue(u, oauthmodel.ParamError)
	result.ErrorDescription, _ = firstValue(u, oauthmodel.ParamErrorDescription)
	result.State, _ = firstValue(u, oauthmodel.ParamState)
	return result
}

// firstValue returns the value of the first pair named name. A bare key with no
// '=' has no value and counts as absent. Pairs that fail to unescape are skipped.
func firstValue(u *url.URL, name string) (string, bool) {
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, hasValue := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil || key != name {
			continue
		}
		if !hasValue {
			return "", false
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		return value, true
	}
	return "", false
}
