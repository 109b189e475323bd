package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/eolso/librespot-golang/Spotify"
	"github.com/viant/afs"
)

// StoredCredentialsType is the credential type recorded alongside a reusable auth blob.
var StoredCredentialsType = Spotify.AuthenticationType_AUTHENTICATION_STORED_SPOTIFY_CREDENTIALS.String()

// StoredCredentials is the on-disk form of a reusable login.
type StoredCredentials struct {
	Username    string `json:"username"`
	Credentials []byte `json:"credentials"`
	Type        string `json:"type"`
}

// CredentialStore reads and writes StoredCredentials at a single location.
type CredentialStore struct {
	path string
	fs   afs.Service
}

func NewCredentialStore(path string) *CredentialStore {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	return &CredentialStore{
		path: path,
		fs:   afs.New(),
	}
}

func (c *CredentialStore) Path() string {
	return c.path
}

func (c *CredentialStore) Exists(ctx context.Context) (bool, error) {
	return c.fs.Exists(ctx, c.path)
}

func (c *CredentialStore) Save(ctx context.Context, creds StoredCredentials) error {
	if creds.Username == "" || len(creds.Credentials) == 0 {
		return ErrInvalidCredentials
	}
	if creds.Type == "" {
		creds.Type = StoredCredentialsType
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err = c.fs.Upload(ctx, c.path, 0600, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	return nil
}

func (c *CredentialStore) Load(ctx context.Context) (StoredCredentials, error) {
	var creds StoredCredentials

	ok, err := c.Exists(ctx)
	if err != nil {
		return creds, err
	}
	if !ok {
		return creds, ErrCredentialsNotFound
	}

	data, err := c.fs.DownloadWithURL(ctx, c.path)
	if err != nil {
		return creds, fmt.Errorf("failed to read credentials: %w", err)
	}

	if err = json.Unmarshal(data, &creds); err != nil {
		return creds, fmt.Errorf("%w: %s", ErrInvalidCredentials, err)
	}
	if creds.Username == "" || len(creds.Credentials) == 0 {
		return creds, ErrInvalidCredentials
	}

	return creds, nil
}
