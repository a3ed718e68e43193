package config

import "time"

type FlowConfig interface {
	GetStrictMode() bool
	GetFlowTimeout() time.Duration
}

type Flow struct {
	StrictMode  bool          `env:"AUTH_STRICT_MODE" envDefault:"false"`
	FlowTimeout time.Duration `env:"AUTH_FLOW_TIMEOUT" envDefault:"5m"`
}

var _ FlowConfig = Flow{}

// GetStrictMode reports whether silently dropped flow outcomes should be surfaced as failures.
func (f Flow) GetStrictMode() bool {
	return f.StrictMode
}

func (f Flow) GetFlowTimeout() time.Duration {
	return f.FlowTimeout
}
