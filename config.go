package connectcheck

import "time"

type Config struct {
	// Timeout bounds how long to wait for a Spotify Connect transfer.
	// Defaults to 60s.
	Timeout time.Duration `json:"timeout" toml:"timeout"`

	// PollInterval sets how often the session source is queried.
	// Defaults to 1s.
	PollInterval time.Duration `json:"poll_interval" toml:"poll_interval"`

	// Scope is requested through the single scope accessor.
	// Defaults to "playlist-read".
	Scope string `json:"scope" toml:"scope"`

	// Scopes are requested together through the multi scope accessor.
	// Defaults to ["user-read-email", "user-read-private"].
	Scopes []string `json:"scopes" toml:"scopes"`

	// CredentialsPath is checked for existence once tokens have been fetched.
	// Defaults to "credentials.json".
	CredentialsPath string `json:"credentials_path" toml:"credentials_path"`

	// DeviceName is only used in the printed instructions.
	// Defaults to "librespot-spotizerr".
	DeviceName string `json:"device_name" toml:"device_name"`
}

func DefaultConfig() Config {
	return Config{
		Timeout:         60 * time.Second,
		PollInterval:    time.Second,
		Scope:           "playlist-read",
		Scopes:          []string{"user-read-email", "user-read-private"},
		CredentialsPath: "credentials.json",
		DeviceName:      "librespot-spotizerr",
	}
}
