package sessionrepo

import "time"

// State is where an authorization session sits in the flow.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingRedirect State = "awaiting_redirect"
	StateExchangingToken  State = "exchanging_token"
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
)

// InFlight reports whether a session in this state still expects a callback.
func (s State) InFlight() bool {
	return s == StateAwaitingRedirect || s == StateExchangingToken
}

type Session struct {
	ID             string
	URLScheme      string
	RedirectURI    string
	HasRedirectURI bool
	State          State
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Repo interface {
	Upsert(session *Session) error
	Get(id string) (*Session, error)
	Delete(id string) error
}
