package config

type SpotifyConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetScopes() string
	GetRedirectURI() string
	GetURLScheme() string
}

type Spotify struct {
	ClientID     string `env:"SPOTIFY_CLIENT_ID,notEmpty"`
	ClientSecret string `env:"SPOTIFY_CLIENT_SECRET,notEmpty"`
	Scopes       string `env:"SPOTIFY_SCOPES" envDefault:"user-read-private"`
	RedirectURI  string `env:"SPOTIFY_REDIRECT_URI" envDefault:"http://127.0.0.1:8080/callback"`
	URLScheme    string `env:"SPOTIFY_URL_SCHEME" envDefault:"http"`
}

var _ SpotifyConfig = Spotify{}

func (s Spotify) GetClientID() string {
	return s.ClientID
}

func (s Spotify) GetClientSecret() string {
	return s.ClientSecret
}

// GetScopes returns the space separated scope string sent on the authorize request.
func (s Spotify) GetScopes() string {
	return s.Scopes
}

func (s Spotify) GetRedirectURI() string {
	return s.RedirectURI
}

func (s Spotify) GetURLScheme() string {
	return s.URLScheme
}
