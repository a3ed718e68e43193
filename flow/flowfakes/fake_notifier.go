package flowfakes

import (
	"sync"
	"time"

	"github.com/jrsteele09/go-spotify-auth/flow"
)

// RecordingNotifier collects every notification it receives.
type RecordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []error
	contexts  []bool
	events    chan struct{}

	// InContext, when set, is evaluated on every notification and recorded.
	InContext func() bool
}

var _ flow.Notifier = (*RecordingNotifier)(nil)

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{events: make(chan struct{}, 64)}
}

func (n *RecordingNotifier) DidAuthenticateSuccess(token string) {
	n.mu.Lock()
	n.successes = append(n.successes, token)
	n.recordContextLocked()
	n.mu.Unlock()
	n.events <- struct{}{}
}

func (n *RecordingNotifier) DidAuthenticateFail(err error) {
	n.mu.Lock()
	n.failures = append(n.failures, err)
	n.recordContextLocked()
	n.mu.Unlock()
	n.events <- struct{}{}
}

func (n *RecordingNotifier) recordContextLocked() {
	if n.InContext != nil {
		n.contexts = append(n.contexts, n.InContext())
	}
}

// Wait blocks until a notification arrives or timeout passes.
func (n *RecordingNotifier) Wait(timeout time.Duration) bool {
	select {
	case <-n.events:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (n *RecordingNotifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...)
}

func (n *RecordingNotifier) Failures() []error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]error(nil), n.failures...)
}

// Contexts returns the InContext result for each notification, in order.
func (n *RecordingNotifier) Contexts() []bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]bool(nil), n.contexts...)
}
