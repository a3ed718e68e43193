package flowfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-spotify-auth/oauthmodel"
	"github.com/jrsteele09/go-spotify-auth/token"
)

// ExchangeCall records the arguments of one Exchange call.
type ExchangeCall struct {
	Code        string
	RedirectURI string
	Creds       oauthmodel.ClientCredentials
}

// FakeExchanger returns a fixed outcome without touching the network.
type FakeExchanger struct {
	mu      sync.Mutex
	Outcome oauthmodel.AuthOutcome
	calls   []ExchangeCall
}

var _ token.Exchanger = (*FakeExchanger)(nil)

func NewFakeExchanger(outcome oauthmodel.AuthOutcome) *FakeExchanger {
	return &FakeExchanger{Outcome: outcome}
}

func (e *FakeExchanger) Exchange(_ context.Context, code, redirectURI string, creds oauthmodel.ClientCredentials) oauthmodel.AuthOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, ExchangeCall{Code: code, RedirectURI: redirectURI, Creds: creds})
	return e.Outcome
}

func (e *FakeExchanger) Calls() []ExchangeCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ExchangeCall(nil), e.calls...)
}
