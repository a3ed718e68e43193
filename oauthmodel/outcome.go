package oauthmodel

import "golang.org/x/oauth2"

// OutcomeKind classifies how a flow step ended.
type OutcomeKind int

const (
	// OutcomeNone means the step ended without anything to report to the caller.
	// Gap on the outcome explains why, for logging or strict mode.
	OutcomeNone OutcomeKind = iota
	OutcomeSuccess
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "none"
	}
}

// AuthOutcome is the terminal result of a token exchange.
type AuthOutcome struct {
	Kind OutcomeKind

	// Token is set on success. Extra() exposes the raw token response fields.
	Token *oauth2.Token

	// Err is set on failure.
	Err error

	// Gap is set when Kind is OutcomeNone.
	Gap error
}

func Success(token *oauth2.Token) AuthOutcome {
	return AuthOutcome{Kind: OutcomeSuccess, Token: token}
}

func Failure(err error) AuthOutcome {
	return AuthOutcome{Kind: OutcomeFailure, Err: err}
}

func NoOutcome(gap error) AuthOutcome {
	return AuthOutcome{Kind: OutcomeNone, Gap: gap}
}

// AccessToken returns the bearer token string, or "" when the outcome is not a success.
func (o AuthOutcome) AccessToken() string {
	if o.Kind != OutcomeSuccess || o.Token == nil {
		return ""
	}
	return o.Token.AccessToken
}
