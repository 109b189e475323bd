package spotify

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultKeymasterClientID is the client id librespot presents to the keymaster endpoint.
const DefaultKeymasterClientID = "65b708073fc0480ea92a077233ca87bd"

type SessionConfig struct {
	// ConfigHomeDir sets the parent directory for state files such as the discovery blob cache.
	// Defaults to ${HOME}/.local/apollo/spotify/ on linux/macos and %userprofile%\AppData\local\apollo\spotify\ on windows.
	ConfigHomeDir string `json:"config_home_dir" toml:"config_home_dir"`

	// DeviceName is the name advertised over zeroconf and shown in the Spotify Connect device list.
	// Defaults to "librespot-spotizerr".
	DeviceName string `json:"device_name" toml:"device_name"`

	// StoreCredentials enables writing the reusable auth blob to CredentialsPath once a session is established.
	// Defaults to true.
	StoreCredentials bool `json:"store_credentials" toml:"store_credentials"`

	// CredentialsPath sets where stored credentials are read from and written to.
	// Defaults to "credentials.json" in the working directory.
	CredentialsPath string `json:"credentials_path" toml:"credentials_path"`

	// KeymasterClientID sets the client id used when requesting scoped tokens.
	// Defaults to DefaultKeymasterClientID.
	KeymasterClientID string `json:"keymaster_client_id" toml:"keymaster_client_id"`
}

func DefaultSessionConfig() SessionConfig {
	configHomeDir := ""

	switch runtime.GOOS {
	case "windows":
		if path, ok := os.LookupEnv("USERPROFILE"); ok {
			configHomeDir = filepath.Join(path, "AppData", "local", "apollo", "spotify")
		}
	default:
		if path, ok := os.LookupEnv("HOME"); ok {
			configHomeDir = filepath.Join(path, ".local", "apollo", "spotify")
		}
	}

	if configHomeDir == "" {
		configHomeDir = filepath.Join(".", ".apollo", "spotify")
	}

	return SessionConfig{
		ConfigHomeDir:     configHomeDir,
		DeviceName:        "librespot-spotizerr",
		StoreCredentials:  true,
		CredentialsPath:   "credentials.json",
		KeymasterClientID: DefaultKeymasterClientID,
	}
}

// discoveryBlobPath is the file librespot caches the raw discovery blob in.
func (c SessionConfig) discoveryBlobPath() string {
	if c.ConfigHomeDir == "" {
		return ""
	}
	return filepath.Join(c.ConfigHomeDir, "discovery.blob")
}
