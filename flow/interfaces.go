package flow

import (
	"context"
	"net/url"
)

// Notifier receives the terminal outcome of an authorization flow.
// Methods are always called on the coordinator's Dispatcher.
type Notifier interface {
	DidAuthenticateSuccess(token string)
	DidAuthenticateFail(err error)
}

// PresentationContextProvider supplies the display surface the authorization UI is attached to.
// The coordinator never inspects it; it is handed to the Presenter as is.
type PresentationContextProvider interface {
	PresentationAnchor() any
}

// Presenter shows the provider's authorization page to the user and reports the redirect.
//
// Start must not block on the user. done is called exactly once, with the redirect
// URL whose scheme matches callbackScheme, or with an error such as
// ErrUserCancelled when the UI is dismissed.
type Presenter interface {
	Start(ctx context.Context, authURL *url.URL, callbackScheme string, anchor PresentationContextProvider, done func(callback *url.URL, err error)) error
}
