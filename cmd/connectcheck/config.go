package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v3"

	"github.com/olympus-go/connectcheck"
	"github.com/olympus-go/connectcheck/spotify"
)

// fileConfig is the layout of the optional TOML configuration file.
type fileConfig struct {
	Check   connectcheck.Config   `toml:"check"`
	Spotify spotify.SessionConfig `toml:"spotify"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Check:   connectcheck.DefaultConfig(),
		Spotify: spotify.DefaultSessionConfig(),
	}
}

// loadConfig reads path on top of the defaults. Keys missing from the file keep their default values.
func loadConfig(path string) (fileConfig, error) {
	config := defaultFileConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = toml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// resolveConfig builds the effective configuration from defaults, the optional config file, and explicitly set flags.
func resolveConfig(cmd *cli.Command) (fileConfig, error) {
	config := defaultFileConfig()

	if path := cmd.String("config"); path != "" {
		var err error
		if config, err = loadConfig(path); err != nil {
			return config, err
		}
	}

	if cmd.IsSet("timeout") {
		config.Check.Timeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("poll-interval") {
		config.Check.PollInterval = cmd.Duration("poll-interval")
	}
	if cmd.IsSet("credentials") {
		config.Check.CredentialsPath = cmd.String("credentials")
	}
	if cmd.IsSet("device-name") {
		config.Check.DeviceName = cmd.String("device-name")
	}

	if config.Check.PollInterval <= 0 {
		return config, fmt.Errorf("poll interval must be positive, got %s", config.Check.PollInterval)
	}

	// The server writes where the harness looks.
	config.Spotify.CredentialsPath = config.Check.CredentialsPath
	config.Spotify.DeviceName = config.Check.DeviceName

	return config, nil
}
