package config

type EnvVars struct {
	AppName      string `env:"APP_NAME" envDefault:"Spotify Auth"`
	Environment  string `env:"ENV" envDefault:"DEV"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	OtelEndpoint string `env:"OTEL_ENDPOINT"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	return e.Environment
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

// GetOtelEndpoint returns the OTLP/HTTP endpoint. Tracing is disabled when empty.
func (e EnvVars) GetOtelEndpoint() string {
	return e.OtelEndpoint
}
