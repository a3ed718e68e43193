package flowfakes

import (
	"context"
	"net/url"
	"sync"

	"github.com/jrsteele09/go-spotify-auth/flow"
)

// PresenterStart records one call to FakePresenter.Start.
type PresenterStart struct {
	AuthURL        *url.URL
	CallbackScheme string
	Anchor         flow.PresentationContextProvider
	done           func(callback *url.URL, err error)
}

// FakePresenter records Start calls and lets a test play the user's part.
type FakePresenter struct {
	mu       sync.Mutex
	StartErr error
	starts   []PresenterStart
}

var _ flow.Presenter = (*FakePresenter)(nil)

func NewFakePresenter() *FakePresenter {
	return &FakePresenter{}
}

func (p *FakePresenter) Start(_ context.Context, authURL *url.URL, callbackScheme string, anchor flow.PresentationContextProvider, done func(callback *url.URL, err error)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.StartErr != nil {
		return p.StartErr
	}
	p.starts = append(p.starts, PresenterStart{
		AuthURL:        authURL,
		CallbackScheme: callbackScheme,
		Anchor:         anchor,
		done:           done,
	})
	return nil
}

func (p *FakePresenter) Starts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.starts)
}

// Last returns the most recent Start call. It panics if Start was never called.
func (p *FakePresenter) Last() PresenterStart {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.starts[len(p.starts)-1]
}

// Redirect completes the most recent session with rawURL as the callback.
func (p *FakePresenter) Redirect(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	p.Last().done(u, nil)
	return nil
}

// Fail completes the most recent session with err, as when the user dismisses the UI.
func (p *FakePresenter) Fail(err error) {
	p.Last().done(nil, err)
}
