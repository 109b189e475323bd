package spotify

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSession_NotLoggedIn(t *testing.T) {
	config := DefaultSessionConfig()
	config.ConfigHomeDir = t.TempDir()
	config.CredentialsPath = filepath.Join(config.ConfigHomeDir, "credentials.json")

	s := NewSession(config, zerolog.Nop())

	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Username())
	assert.Empty(t, s.Country())
	assert.Nil(t, s.Tokens())
	assert.ErrorIs(t, s.StoreCredentials(context.Background()), ErrSessionNotLoggedIn)
	assert.ErrorIs(t, s.LoginStored(context.Background()), ErrCredentialsNotFound)
}
