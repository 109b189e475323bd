package spotify

import (
	"context"
	"os"

	"github.com/eolso/librespot-golang/librespot"
	"github.com/eolso/librespot-golang/librespot/core"
	"github.com/rs/zerolog"
)

// Session is the base object used for interacting with spotify. All auth and token calls go through Session one way
// or another.
type Session struct {
	config SessionConfig
	client *core.Session
	tokens *TokenProvider
	logger zerolog.Logger
}

func NewSession(config SessionConfig, logger zerolog.Logger) *Session {
	session := Session{
		config: config,
		logger: logger.With().Str("package", "spotify").Logger(),
	}

	if config.ConfigHomeDir != "" {
		if err := os.MkdirAll(config.ConfigHomeDir, 0755); err != nil {
			session.logger.Warn().Err(err).Msg("failed to create config home directory")
		}
	}

	return &session
}

// LoginStored logs in with the reusable credentials previously written to the configured credentials path.
func (s *Session) LoginStored(ctx context.Context) error {
	if s.LoggedIn() {
		return ErrSessionAlreadyLoggedIn
	}

	creds, err := NewCredentialStore(s.config.CredentialsPath).Load(ctx)
	if err != nil {
		return err
	}

	client, err := librespot.LoginSaved(creds.Username, creds.Credentials, s.config.DeviceName)
	if err != nil {
		return err
	}
	s.attach(client)

	return nil
}

// LoginDiscovery advertises the device over zeroconf and blocks until a Spotify Connect client transfers to it.
func (s *Session) LoginDiscovery() error {
	if s.LoggedIn() {
		return ErrSessionAlreadyLoggedIn
	}

	client, err := librespot.LoginDiscovery(s.config.discoveryBlobPath(), s.config.DeviceName)
	if err != nil {
		return err
	}
	s.attach(client)

	return nil
}

func (s *Session) attach(client *core.Session) {
	s.client = client
	s.tokens = newTokenProvider(s.config.KeymasterClientID, client.Mercury())
	s.logger.Info().Str("username", client.Username()).Msg("session established")
}

func (s *Session) Username() string {
	if s.client != nil {
		return s.client.Username()
	}

	return ""
}

func (s *Session) Country() string {
	if s.client != nil {
		return s.client.Country()
	}

	return ""
}

func (s *Session) LoggedIn() bool {
	return s.client != nil
}

// Tokens returns the token provider bound to this session, or nil if not logged in.
func (s *Session) Tokens() *TokenProvider {
	return s.tokens
}

// StoreCredentials writes the session's reusable auth blob to the configured credentials path.
func (s *Session) StoreCredentials(ctx context.Context) error {
	if !s.LoggedIn() {
		return ErrSessionNotLoggedIn
	}

	return NewCredentialStore(s.config.CredentialsPath).Save(ctx, StoredCredentials{
		Username:    s.client.Username(),
		Credentials: s.client.ReusableAuthBlob(),
	})
}
