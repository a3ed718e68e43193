package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the authorization code flow
var (
	// Redirect errors
	ErrUserCancelled = errors.New("user cancelled authorization")
	ErrAuthServer    = errors.New("authorization server error")
	ErrMissingCode   = errors.New("redirect has no authorization code")

	// Token exchange errors
	ErrTransport         = errors.New("token request transport failure")
	ErrTokenEndpoint     = errors.New("token endpoint returned an error status")
	ErrMalformedResponse = errors.New("malformed token response")

	// Flow errors
	ErrMalformedInput  = errors.New("malformed authorization input")
	ErrFlowInProgress  = errors.New("authorization flow already in progress")
	ErrPresenterFailed = errors.New("authorization presenter failed to start")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
)

// AuthServerError is the error a provider reports on the redirect, e.g. access_denied.
type AuthServerError struct {
	Code        string
	Description string
}

func (e *AuthServerError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("%s: %s", ErrAuthServer, e.Code)
	}
	return fmt.Sprintf("%s: %s - %s", ErrAuthServer, e.Code, e.Description)
}

// Is makes errors.Is(err, ErrAuthServer) match any AuthServerError.
func (e *AuthServerError) Is(target error) bool {
	return target == ErrAuthServer
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Join wraps cause under the sentinel kind so both match with errors.Is
func Join(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
