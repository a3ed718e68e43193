// Package browser presents the authorization page in the system browser and
// captures the redirect on a loopback HTTP listener.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-spotify-auth/authurl"
	"github.com/jrsteele09/go-spotify-auth/flow"
	autherrors "github.com/jrsteele09/go-spotify-auth/internal/errors"
	"github.com/jrsteele09/go-spotify-auth/oauthmodel"
	pkgbrowser "github.com/pkg/browser"
	"github.com/rs/zerolog/log"
)

const (
	defaultShutdownTimeout = 5 * time.Second

	successPage = "Authorization complete. You can close this window and return to the application."
	failurePage = "Authorization failed. You can close this window and return to the application."
)

// LoopbackPresenter opens the authorization URL in the user's browser and serves
// the redirect URI on the local machine. The redirect URI must be an http URL on
// a loopback host with an explicit port, e.g. http://127.0.0.1:8080/callback.
type LoopbackPresenter struct {
	openURL         func(rawURL string) error
	listen          func(network, address string) (net.Listener, error)
	shutdownTimeout time.Duration
}

var _ flow.Presenter = (*LoopbackPresenter)(nil)

type Option func(*LoopbackPresenter)

// WithOpener replaces the system browser launcher.
func WithOpener(open func(rawURL string) error) Option {
	return func(p *LoopbackPresenter) {
		p.openURL = open
	}
}

func WithListenFunc(listen func(network, address string) (net.Listener, error)) Option {
	return func(p *LoopbackPresenter) {
		p.listen = listen
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(p *LoopbackPresenter) {
		p.shutdownTimeout = d
	}
}

func NewLoopbackPresenter(opts ...Option) *LoopbackPresenter {
	p := &LoopbackPresenter{
		openURL:         pkgbrowser.OpenURL,
		listen:          net.Listen,
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start implements flow.Presenter. The redirect URI is read from the authorize
// URL's redirect_uri parameter. The anchor has no meaning for a system browser
// and is ignored.
func (p *LoopbackPresenter) Start(ctx context.Context, authURL *url.URL, callbackScheme string, _ flow.PresentationContextProvider, done func(callback *url.URL, err error)) error {
	redirect, err := loopbackRedirect(authURL, callbackScheme)
	if err != nil {
		return err
	}

	listener, err := p.listen("tcp", redirect.Host)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", redirect.Host, err)
	}

	session := &loopbackSession{
		redirect: redirect,
		done:     done,
		stop:     make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath(redirect), chainMiddleware(session.handleCallback, callbackMiddleware()...))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Msg("Loopback server stopped")
			session.finish(nil, autherrors.Join(autherrors.ErrPresenterFailed, err))
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			session.finish(nil, autherrors.Join(autherrors.ErrUserCancelled, ctx.Err()))
		case <-session.stop:
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), p.shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Err(err).Msg("Loopback server shutdown")
		}
	}()

	log.Info().Str("url", authURL.String()).Msg("Opening browser for authorization")
	if err := p.openURL(authURL.String()); err != nil {
		// The URL is logged above, so the user can still open it by hand.
		log.Warn().Err(err).Msg("Browser could not be opened")
	}
	return nil
}

type loopbackSession struct {
	redirect *url.URL
	done     func(callback *url.URL, err error)
	once     sync.Once
	stop     chan struct{}
}

func (s *loopbackSession) handleCallback(w http.ResponseWriter, r *http.Request) {
	callback := *s.redirect
	callback.RawQuery = r.URL.RawQuery
	callback.Fragment = ""

	result := authurl.ParseRedirect(&callback)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if result.Failed() {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(failurePage))
		s.finish(nil, &autherrors.AuthServerError{Code: result.Error, Description: result.ErrorDescription})
		return
	}
	_, _ = w.Write([]byte(successPage))
	s.finish(&callback, nil)
}

// finish reports the first result only and stops the server.
func (s *loopbackSession) finish(callback *url.URL, err error) {
	s.once.Do(func() {
		close(s.stop)
		s.done(callback, err)
	})
}

func loopbackRedirect(authURL *url.URL, callbackScheme string) (*url.URL, error) {
	if authURL == nil {
		return nil, autherrors.Wrapf(autherrors.ErrMalformedInput, "no authorization url")
	}
	raw := authURL.Query().Get(oauthmodel.ParamRedirectURI)
	redirect, err := url.Parse(raw)
	if err != nil {
		return nil, autherrors.Join(autherrors.ErrMalformedInput, err)
	}
	if redirect.Scheme != "http" {
		return nil, autherrors.Wrapf(autherrors.ErrMalformedInput, "redirect uri %q is not an http loopback address", raw)
	}
	if callbackScheme != "" && !strings.EqualFold(callbackScheme, redirect.Scheme) {
		return nil, autherrors.Wrapf(autherrors.ErrMalformedInput, "callback scheme %q does not match redirect uri %q", callbackScheme, raw)
	}
	if redirect.Port() == "" || !isLoopback(redirect.Hostname()) {
		return nil, autherrors.Wrapf(autherrors.ErrMalformedInput, "redirect uri %q needs a loopback host and port", raw)
	}
	return redirect, nil
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func callbackPath(redirect *url.URL) string {
	if redirect.Path == "" {
		return "/"
	}
	return redirect.Path
}
