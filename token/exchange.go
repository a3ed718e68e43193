// Package token exchanges an authorization code for an access token at the provider's token endpoint.
package token

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	autherrors "github.com/jrsteele09/go-spotify-auth/internal/errors"
	"github.com/jrsteele09/go-spotify-auth/oauthmodel"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/spotify"
)

const (
	tracerName = "github.com/jrsteele09/go-spotify-auth/token"

	contentTypeForm = "application/x-www-form-urlencoded"
)

// Exchanger turns an authorization code into an outcome.
type Exchanger interface {
	Exchange(ctx context.Context, code, redirectURI string, creds oauthmodel.ClientCredentials) oauthmodel.AuthOutcome
}

// Client performs the authorization_code grant against a single token endpoint.
type Client struct {
	httpClient *http.Client
	tokenURL   string
	tracer     trace.Tracer
}

var _ Exchanger = (*Client)(nil)

type ClientOption func(*Client)

// WithHTTPClient replaces http.DefaultClient. No timeout is set by default.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTokenURL(tokenURL string) ClientOption {
	return func(c *Client) {
		c.tokenURL = tokenURL
	}
}

func WithTracer(tracer trace.Tracer) ClientOption {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// NewClient returns a Client for Spotify's token endpoint.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		tokenURL:   spotify.Endpoint.TokenURL,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exchange posts the code to the token endpoint.
//
// Transport failures produce a Failure outcome wrapping ErrTransport. A response
// whose body is not JSON, or has no string access_token, produces no outcome; the
// reason is on AuthOutcome.Gap. The HTTP status is not checked before parsing,
// so a 2xx without a token and a 4xx both end up as gaps.
func (c *Client) Exchange(ctx context.Context, code, redirectURI string, creds oauthmodel.ClientCredentials) oauthmodel.AuthOutcome {
	ctx, span := c.tracer.Start(ctx, "token.Exchange", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	outcome, status := c.exchange(ctx, code, redirectURI, creds)

	span.SetAttributes(
		attribute.String("auth.outcome", outcome.Kind.String()),
		attribute.Int("http.response.status_code", status),
	)
	switch outcome.Kind {
	case oauthmodel.OutcomeFailure:
		span.RecordError(outcome.Err)
		span.SetStatus(codes.Error, outcome.Err.Error())
	case oauthmodel.OutcomeNone:
		span.SetStatus(codes.Error, outcome.Gap.Error())
	}
	return outcome
}

func (c *Client) exchange(ctx context.Context, code, redirectURI string, creds oauthmodel.ClientCredentials) (oauthmodel.AuthOutcome, int) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(EncodeForm(code, redirectURI)))
	if err != nil {
		return oauthmodel.Failure(autherrors.Join(autherrors.ErrTransport, err)), 0
	}
	req.Header.Set("Content-Type", contentTypeForm)
	req.Header.Set("Authorization", BasicAuthorization(creds.ClientID, creds.ClientSecret))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Err(err).Str("token_url", c.tokenURL).Msg("Token request failed")
		return oauthmodel.Failure(autherrors.Join(autherrors.ErrTransport, err)), 0
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Err(err).Int("status", resp.StatusCode).Msg("Token response body could not be read")
		return oauthmodel.Failure(autherrors.Join(autherrors.ErrTransport, err)), resp.StatusCode
	}

	parsed, err := oauthmodel.ParseTokenResponse(body)
	if err != nil {
		gap := autherrors.Join(autherrors.ErrMalformedResponse, err)
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			gap = fmt.Errorf("%w: status %d: %w", autherrors.ErrTokenEndpoint, resp.StatusCode, gap)
		}
		log.Warn().Err(gap).Int("status", resp.StatusCode).Msg("Token response ignored")
		return oauthmodel.NoOutcome(gap), resp.StatusCode
	}

	tok := &oauth2.Token{AccessToken: parsed.AccessToken}
	if tokenType, ok := parsed.Raw["token_type"].(string); ok {
		tok.TokenType = tokenType
	}
	return oauthmodel.Success(tok.WithExtra(parsed.Raw)), resp.StatusCode
}

// BasicAuthorization returns the Authorization header value for client credentials:
// "Basic " followed by base64 of "clientID:clientSecret".
func BasicAuthorization(clientID, clientSecret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(clientID+":"+clientSecret))
}

// EncodeForm builds the authorization_code grant body with fields in the order
// code, redirect_uri, grant_type. ':' and '/' are left unescaped so URIs like
// app://cb stay readable; every other reserved character is percent-encoded.
func EncodeForm(code, redirectURI string) string {
	return oauthmodel.ParamCode + "=" + formEscape(code) +
		"&" + oauthmodel.ParamRedirectURI + "=" + formEscape(redirectURI) +
		"&" + oauthmodel.ParamGrantType + "=" + string(oauthmodel.AuthorizationCodeGrant)
}

var formUnescaper = strings.NewReplacer("%3A", ":", "%2F", "/")

func formEscape(s string) string {
	return formUnescaper.Replace(url.QueryEscape(s))
}
