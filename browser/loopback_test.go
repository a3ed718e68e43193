package browser_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/jrsteele09/go-spotify-auth/authurl"
	"github.com/jrsteele09/go-spotify-auth/browser"
	autherrors "github.com/jrsteele09/go-spotify-auth/internal/errors"
	"github.com/jrsteele09/go-spotify-auth/internal/utils"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

type result struct {
	callback *url.URL
	err      error
}

// userAgent plays the browser: once the authorize URL is "opened" it requests
// the loopback redirect with the given query.
func userAgent(t *testing.T, query string) (browser.Option, browser.Option) {
	t.Helper()
	listeners := make(chan net.Listener, 1)
	listen := func(network, address string) (net.Listener, error) {
		l, err := net.Listen(network, "127.0.0.1:0")
		if err == nil {
			listeners <- l
		}
		return l, err
	}
	open := func(string) error {
		l := <-listeners
		go func() {
			resp, err := http.Get("http://" + l.Addr().String() + "/callback?" + query)
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}
	return browser.WithListenFunc(listen), browser.WithOpener(open)
}

func authURL(t *testing.T, redirectURI string) *url.URL {
	t.Helper()
	raw, err := authurl.BuildAuthorizationURL("cid", "user-read-private", utils.Ptr(redirectURI))
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func start(t *testing.T, ctx context.Context, p *browser.LoopbackPresenter) <-chan result {
	t.Helper()
	results := make(chan result, 2)
	err := p.Start(ctx, authURL(t, "http://127.0.0.1:8080/callback"), "http", nil, func(cb *url.URL, err error) {
		results <- result{callback: cb, err: err}
	})
	require.NoError(t, err)
	return results
}

func waitResult(t *testing.T, results <-chan result) result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(waitTimeout):
		t.Fatal("presenter did not complete")
		return result{}
	}
}

func TestLoopbackPresenter_CapturesCode(t *testing.T) {
	listen, open := userAgent(t, "code=ABC123&state=xyz")
	p := browser.NewLoopbackPresenter(listen, open)

	r := waitResult(t, start(t, context.Background(), p))
	require.NoError(t, r.err)
	require.NotNil(t, r.callback)
	require.Equal(t, "http", r.callback.Scheme)
	require.Equal(t, "/callback", r.callback.Path)

	code, ok := authurl.ExtractQueryParameter(r.callback.String(), "code")
	require.True(t, ok)
	require.Equal(t, "ABC123", code)
}

func TestLoopbackPresenter_ProviderError(t *testing.T) {
	listen, open := userAgent(t, "error=access_denied&error_description=denied")
	p := browser.NewLoopbackPresenter(listen, open)

	r := waitResult(t, start(t, context.Background(), p))
	require.Nil(t, r.callback)
	require.ErrorIs(t, r.err, autherrors.ErrAuthServer)

	var serverErr *autherrors.AuthServerError
	require.True(t, errors.As(r.err, &serverErr))
	require.Equal(t, "access_denied", serverErr.Code)
	require.Equal(t, "denied", serverErr.Description)
}

func TestLoopbackPresenter_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := browser.NewLoopbackPresenter(
		browser.WithListenFunc(func(network, _ string) (net.Listener, error) { return net.Listen(network, "127.0.0.1:0") }),
		browser.WithOpener(func(string) error { return nil }),
		browser.WithShutdownTimeout(100*time.Millisecond),
	)

	results := start(t, ctx, p)
	cancel()

	r := waitResult(t, results)
	require.Nil(t, r.callback)
	require.ErrorIs(t, r.err, autherrors.ErrUserCancelled)
	require.ErrorIs(t, r.err, context.Canceled)

	select {
	case extra := <-results:
		t.Fatalf("done called twice: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLoopbackPresenter_OpenerFailureStillListens(t *testing.T) {
	listeners := make(chan net.Listener, 1)
	p := browser.NewLoopbackPresenter(
		browser.WithListenFunc(func(network, _ string) (net.Listener, error) {
			l, err := net.Listen(network, "127.0.0.1:0")
			if err == nil {
				listeners <- l
			}
			return l, err
		}),
		browser.WithOpener(func(string) error { return errors.New("no browser") }),
	)

	results := start(t, context.Background(), p)

	// The user opens the logged URL by hand and completes consent.
	l := <-listeners
	resp, err := http.Get("http://" + l.Addr().String() + "/callback?code=ABC")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := waitResult(t, results)
	require.NoError(t, r.err)
	code, ok := authurl.ExtractQueryParameter(r.callback.String(), "code")
	require.True(t, ok)
	require.Equal(t, "ABC", code)
}

func TestLoopbackPresenter_RejectsUnusableRedirect(t *testing.T) {
	p := browser.NewLoopbackPresenter(browser.WithOpener(func(string) error {
		t.Fatal("opener must not run")
		return nil
	}))
	done := func(*url.URL, error) { t.Fatal("done must not run") }

	tests := []struct {
		name     string
		redirect string
		scheme   string
	}{
		{name: "custom scheme", redirect: "app://cb", scheme: "app"},
		{name: "https", redirect: "https://127.0.0.1:8080/callback", scheme: "https"},
		{name: "no port", redirect: "http://127.0.0.1/callback", scheme: "http"},
		{name: "remote host", redirect: "http://example.com:8080/callback", scheme: "http"},
		{name: "scheme mismatch", redirect: "http://127.0.0.1:8080/callback", scheme: "app"},
		{name: "empty", redirect: "", scheme: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Start(context.Background(), authURL(t, tt.redirect), tt.scheme, nil, done)
			require.ErrorIs(t, err, autherrors.ErrMalformedInput)
		})
	}

	require.ErrorIs(t, p.Start(context.Background(), nil, "http", nil, done), autherrors.ErrMalformedInput)
}
