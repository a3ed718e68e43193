package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrsteele09/go-spotify-auth/flow"
	"github.com/jrsteele09/go-spotify-auth/flow/flowfakes"
	"github.com/jrsteele09/go-spotify-auth/internal/utils"
	"github.com/jrsteele09/go-spotify-auth/oauthmodel"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func startFlow(t *testing.T, outcome oauthmodel.AuthOutcome) (*flow.Coordinator, *flowfakes.FakePresenter, *channelNotifier) {
	t.Helper()
	presenter := flowfakes.NewFakePresenter()
	coordinator := flow.New("cid", "user-read-private", "secret", presenter,
		flow.WithExchanger(flowfakes.NewFakeExchanger(outcome)))
	t.Cleanup(coordinator.Close)

	notifier := newChannelNotifier()
	coordinator.SetNotifier(notifier)
	_, err := coordinator.ShowAuthScreen(context.Background(), utils.Ptr("http"), utils.Ptr("http://127.0.0.1:8080/callback"))
	require.NoError(t, err)
	return coordinator, presenter, notifier
}

func TestWaitForOutcome_Success(t *testing.T) {
	coordinator, presenter, notifier := startFlow(t, oauthmodel.Success(&oauth2.Token{AccessToken: "tok123"}))
	require.NoError(t, presenter.Redirect("http://127.0.0.1:8080/callback?code=ABC"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	token, err := waitForOutcome(ctx, coordinator, notifier)
	require.NoError(t, err)
	require.Equal(t, "tok123", token)
}

func TestWaitForOutcome_SilentDrop(t *testing.T) {
	coordinator, presenter, notifier := startFlow(t, oauthmodel.Success(&oauth2.Token{AccessToken: "tok123"}))
	require.NoError(t, presenter.Redirect("http://127.0.0.1:8080/callback"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := waitForOutcome(ctx, coordinator, notifier)
	require.ErrorIs(t, err, errNoToken)
}

func TestWaitForOutcome_Timeout(t *testing.T) {
	coordinator, _, notifier := startFlow(t, oauthmodel.NoOutcome(nil))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := waitForOutcome(ctx, coordinator, notifier)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChannelNotifier_KeepsFirstOutcome(t *testing.T) {
	n := newChannelNotifier()
	n.DidAuthenticateFail(errors.New("first"))
	n.DidAuthenticateSuccess("second")

	r := <-n.results
	require.EqualError(t, r.err, "first")
	require.Empty(t, n.results)
}
