package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-spotify-auth/browser"
	"github.com/jrsteele09/go-spotify-auth/flow"
	"github.com/jrsteele09/go-spotify-auth/internal/config"
	"github.com/jrsteele09/go-spotify-auth/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const idlePollInterval = 200 * time.Millisecond

var errNoToken = errors.New("authorization ended without an access token")

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("Authorization failed")
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	setupLogger(c.GetLogLevel())
	displayAppname(c.GetAppName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "spotifyauth", c.GetOtelEndpoint())
	if err != nil {
		log.Warn().Err(err).Msg("Tracing disabled")
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Err(err).Msg("Tracing shutdown")
		}
	}()

	accessToken, err := authorize(ctx, c)
	if err != nil {
		return err
	}
	fmt.Println(accessToken)
	return nil
}

func authorize(ctx context.Context, c config.Config) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.GetFlowTimeout())
	defer cancel()

	coordinator := flow.New(c.GetClientID(), c.GetScopes(), c.GetClientSecret(),
		browser.NewLoopbackPresenter(),
		flow.WithStrictMode(c.GetStrictMode()),
	)
	defer coordinator.Close()

	notifier := newChannelNotifier()
	coordinator.SetNotifier(notifier)

	urlScheme, redirectURI := c.GetURLScheme(), c.GetRedirectURI()
	if _, err := coordinator.ShowAuthScreen(ctx, &urlScheme, &redirectURI); err != nil {
		return "", err
	}
	return waitForOutcome(ctx, coordinator, notifier)
}

// waitForOutcome returns when the notifier fires, the flow falls back to idle
// without notifying, or ctx ends.
func waitForOutcome(ctx context.Context, coordinator *flow.Coordinator, notifier *channelNotifier) (string, error) {
	ticker := time.NewTicker(idlePollInterval)
	defer ticker.Stop()

	for {
		select {
		case r := <-notifier.results:
			return r.token, r.err
		case <-ticker.C:
			if coordinator.State() == flow.StateIdle {
				return "", errNoToken
			}
		case <-ctx.Done():
			// Give the presenter a moment to report the cancellation.
			select {
			case r := <-notifier.results:
				return r.token, r.err
			case <-time.After(idlePollInterval):
				return "", ctx.Err()
			}
		}
	}
}

type outcome struct {
	token string
	err   error
}

type channelNotifier struct {
	results chan outcome
}

var _ flow.Notifier = (*channelNotifier)(nil)

func newChannelNotifier() *channelNotifier {
	return &channelNotifier{results: make(chan outcome, 1)}
}

func (n *channelNotifier) DidAuthenticateSuccess(token string) {
	n.deliver(outcome{token: token})
}

func (n *channelNotifier) DidAuthenticateFail(err error) {
	n.deliver(outcome{err: err})
}

func (n *channelNotifier) deliver(o outcome) {
	select {
	case n.results <- o:
	default:
		log.Warn().Msg("Outcome dropped, one already delivered")
	}
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	// Keep stdout for the token.
	fmt.Fprintln(os.Stderr, myFigure.String())
}
