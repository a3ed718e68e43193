// Package flow drives the OAuth 2.0 authorization code flow from the client side:
// launch the authorization UI, wait for the redirect, exchange the code, and report
// the outcome to a Notifier.
package flow

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-spotify-auth/authurl"
	"github.com/jrsteele09/go-spotify-auth/flow/sessionrepo"
	autherrors "github.com/jrsteele09/go-spotify-auth/internal/errors"
	"github.com/jrsteele09/go-spotify-auth/internal/utils"
	"github.com/jrsteele09/go-spotify-auth/oauthmodel"
	"github.com/jrsteele09/go-spotify-auth/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/spotify"
)

type State = sessionrepo.State

const (
	StateIdle             = sessionrepo.StateIdle
	StateAwaitingRedirect = sessionrepo.StateAwaitingRedirect
	StateExchangingToken  = sessionrepo.StateExchangingToken
	StateSucceeded        = sessionrepo.StateSucceeded
	StateFailed           = sessionrepo.StateFailed
)

// Coordinator owns the client credentials and runs one authorization session at a time.
//
// It holds the Notifier without owning it: the caller manages the notifier's
// lifetime and may detach it with SetNotifier(nil) at any point, after which
// outcomes are dropped.
type Coordinator struct {
	creds        oauthmodel.ClientCredentials
	authorizeURL string
	presenter    Presenter
	exchanger    token.Exchanger
	dispatcher   Dispatcher
	ownedQueue   *MainQueue
	sessions     sessionrepo.Repo
	strict       bool
	nowFunc      func() time.Time

	mu                  sync.Mutex
	notifier            Notifier
	presentationContext PresentationContextProvider
	activeID            string
	lastID              string
	state               State
}

type Option func(*Coordinator)

// WithExchanger replaces the default Spotify token client.
func WithExchanger(exchanger token.Exchanger) Option {
	return func(c *Coordinator) {
		c.exchanger = exchanger
	}
}

// WithDispatcher sets the context notifications are delivered on. Without it the
// coordinator starts its own MainQueue, stopped by Close.
func WithDispatcher(dispatcher Dispatcher) Option {
	return func(c *Coordinator) {
		c.dispatcher = dispatcher
	}
}

// WithAuthorizeURL replaces Spotify's authorize endpoint, e.g. for a local stand-in provider.
func WithAuthorizeURL(authorizeURL string) Option {
	return func(c *Coordinator) {
		c.authorizeURL = authorizeURL
	}
}

// WithSessionRepo replaces the in-memory session store. Only the most recent
// session is kept; starting a new one deletes the previous record.
func WithSessionRepo(repo sessionrepo.Repo) Option {
	return func(c *Coordinator) {
		c.sessions = repo
	}
}

// WithStrictMode makes the flow report a failure where it would otherwise end
// silently: a redirect without a code, a token response without an access token,
// or an authorization URL that cannot be built.
func WithStrictMode(strict bool) Option {
	return func(c *Coordinator) {
		c.strict = strict
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.nowFunc = now
	}
}

// New creates a Coordinator. Credentials are not validated; empty values produce
// requests the provider will reject.
func New(clientID, scopes, clientSecret string, presenter Presenter, opts ...Option) *Coordinator {
	c := &Coordinator{
		creds: oauthmodel.ClientCredentials{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       scopes,
		},
		authorizeURL: spotify.Endpoint.AuthURL,
		presenter:    presenter,
		sessions:     sessionrepo.NewInMemoryRepo(),
		nowFunc:      time.Now,
		state:        StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.exchanger == nil {
		c.exchanger = token.NewClient()
	}
	if c.dispatcher == nil {
		c.ownedQueue = NewMainQueue()
		c.dispatcher = c.ownedQueue
	}
	return c
}

// Close stops the coordinator's own MainQueue, if it started one.
func (c *Coordinator) Close() {
	if c.ownedQueue != nil {
		c.ownedQueue.Close()
	}
}

func (c *Coordinator) SetNotifier(n Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifier = n
}

func (c *Coordinator) SetPresentationContext(p PresentationContextProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presentationContext = p
}

// State returns the state of the most recent session.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns the record of the most recent session started by ShowAuthScreen.
func (c *Coordinator) Session(id string) (*sessionrepo.Session, error) {
	return c.sessions.Get(id)
}

// ShowAuthScreen starts an authorization session and returns its id.
//
// The outcome arrives later on the Notifier. A second call while a session is
// still awaiting its redirect or exchanging its code returns ErrFlowInProgress.
// redirectURI may be nil; the authorize request then carries an empty
// redirect_uri and the redirect is never exchanged. ctx bounds the presenter and
// the token request.
func (c *Coordinator) ShowAuthScreen(ctx context.Context, urlScheme, redirectURI *string) (string, error) {
	authURL, err := c.authorizationURL(redirectURI)
	if err != nil {
		log.Warn().Err(err).Msg("Authorization URL could not be built")
		if c.strict {
			c.notifyFail(err)
		}
		return "", err
	}
	if c.presenter == nil {
		return "", autherrors.Wrapf(autherrors.ErrPresenterFailed, "no presenter configured")
	}

	session, err := c.begin(urlScheme, redirectURI)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	anchor := c.presentationContext
	c.mu.Unlock()

	id := session.ID
	done := func(callback *url.URL, err error) {
		c.dispatcher.Dispatch(func() {
			c.handleRedirect(ctx, id, redirectURI, callback, err)
		})
	}
	if err := c.presenter.Start(ctx, authURL, session.URLScheme, anchor, done); err != nil {
		err = autherrors.Join(autherrors.ErrPresenterFailed, err)
		log.Err(err).Str("session_id", id).Msg("Authorization UI did not start")
		c.transition(id, StateIdle)
		return "", err
	}

	log.Debug().Str("session_id", id).Msg("Authorization UI started")
	return id, nil
}

func (c *Coordinator) authorizationURL(redirectURI *string) (*url.URL, error) {
	req := authurl.NewAuthorizationRequest(c.creds.ClientID, c.creds.Scopes, redirectURI)
	req.BaseURL = c.authorizeURL
	raw, err := authurl.Build(req)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, autherrors.Join(autherrors.ErrMalformedInput, err)
	}
	return u, nil
}

func (c *Coordinator) begin(urlScheme, redirectURI *string) (*sessionrepo.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.InFlight() {
		return nil, autherrors.Wrapf(autherrors.ErrFlowInProgress, "session %s", c.activeID)
	}

	now := c.nowFunc()
	session := &sessionrepo.Session{
		ID:             uuid.New().String(),
		URLScheme:      utils.Deref(urlScheme, ""),
		RedirectURI:    utils.Deref(redirectURI, ""),
		HasRedirectURI: redirectURI != nil,
		State:          StateAwaitingRedirect,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := c.sessions.Upsert(session); err != nil {
		return nil, err
	}
	if c.lastID != "" {
		if err := c.sessions.Delete(c.lastID); err != nil {
			log.Err(err).Str("session_id", c.lastID).Msg("Previous session record not deleted")
		}
	}
	c.lastID = session.ID
	c.activeID = session.ID
	c.state = StateAwaitingRedirect
	return session, nil
}

// transitionFrom moves session id from one state to the next. It reports false
// when the session is no longer active or is not in the from state.
func (c *Coordinator) transitionFrom(id string, from, to State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activeID != id || c.state != from {
		return false
	}
	c.setStateLocked(id, to)
	return true
}

func (c *Coordinator) transition(id string, to State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activeID != id {
		return
	}
	c.setStateLocked(id, to)
}

func (c *Coordinator) setStateLocked(id string, to State) {
	c.state = to
	if !to.InFlight() {
		c.activeID = ""
	}

	session, err := c.sessions.Get(id)
	if err != nil {
		log.Err(err).Str("session_id", id).Msg("Session record missing")
		return
	}
	session.State = to
	session.UpdatedAt = c.nowFunc()
	if err := c.sessions.Upsert(session); err != nil {
		log.Err(err).Str("session_id", id).Msg("Session record not updated")
	}
}

// handleRedirect runs on the dispatcher.
func (c *Coordinator) handleRedirect(ctx context.Context, id string, redirectURI *string, callback *url.URL, err error) {
	c.mu.Lock()
	current := c.activeID == id && c.state == StateAwaitingRedirect
	c.mu.Unlock()
	if !current {
		log.Warn().Str("session_id", id).Msg("Redirect for a session that is no longer awaiting one ignored")
		return
	}

	if err != nil {
		c.transition(id, StateFailed)
		log.Err(err).Str("session_id", id).Msg("Authorization failed")
		c.deliverFail(err)
		return
	}

	code, ok := "", false
	if callback != nil {
		code, ok = authurl.ExtractQueryParameter(callback.String(), oauthmodel.ParamCode)
	}
	if !ok || redirectURI == nil {
		gap := autherrors.Wrapf(autherrors.ErrMissingCode, "code present %t, redirect uri set %t", ok, redirectURI != nil)
		log.Warn().Err(gap).Str("session_id", id).Msg("Redirect dropped")
		c.endSilently(id, gap)
		return
	}

	if !c.transitionFrom(id, StateAwaitingRedirect, StateExchangingToken) {
		return
	}

	creds := c.creds
	redirect := *redirectURI
	go func() {
		outcome := c.exchanger.Exchange(ctx, code, redirect, creds)
		c.dispatcher.Dispatch(func() {
			c.handleOutcome(id, outcome)
		})
	}()
}

// handleOutcome runs on the dispatcher.
func (c *Coordinator) handleOutcome(id string, outcome oauthmodel.AuthOutcome) {
	c.mu.Lock()
	current := c.activeID == id && c.state == StateExchangingToken
	c.mu.Unlock()
	if !current {
		return
	}

	switch outcome.Kind {
	case oauthmodel.OutcomeSuccess:
		c.transition(id, StateSucceeded)
		log.Info().Str("session_id", id).Msg("Authorization succeeded")
		c.deliverSuccess(outcome.AccessToken())
	case oauthmodel.OutcomeFailure:
		c.transition(id, StateFailed)
		log.Err(outcome.Err).Str("session_id", id).Msg("Token exchange failed")
		c.deliverFail(outcome.Err)
	default:
		gap := outcome.Gap
		if gap == nil {
			gap = autherrors.ErrMalformedResponse
		}
		log.Warn().Err(gap).Str("session_id", id).Msg("Token exchange ended without an outcome")
		c.endSilently(id, gap)
	}
}

// endSilently closes a session that has nothing to report. In strict mode the
// gap is reported as a failure instead.
func (c *Coordinator) endSilently(id string, gap error) {
	if !c.strict {
		c.transition(id, StateIdle)
		return
	}
	c.transition(id, StateFailed)
	c.deliverFail(gap)
}

func (c *Coordinator) currentNotifier() Notifier {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notifier
}

// deliverSuccess and deliverFail must be called on the dispatcher.
func (c *Coordinator) deliverSuccess(accessToken string) {
	if n := c.currentNotifier(); n != nil {
		n.DidAuthenticateSuccess(accessToken)
	}
}

func (c *Coordinator) deliverFail(err error) {
	if n := c.currentNotifier(); n != nil {
		n.DidAuthenticateFail(err)
	}
}

func (c *Coordinator) notifyFail(err error) {
	c.dispatcher.Dispatch(func() {
		c.deliverFail(err)
	})
}
