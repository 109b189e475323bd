package spotify

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eolso/librespot-golang/librespot/metadata"
	"golang.org/x/oauth2"
)

// keymaster is the part of the mercury client that hands out scoped tokens.
type keymaster interface {
	GetToken(clientId string, scopes string) (*metadata.Token, error)
}

// TokenProvider issues access tokens for a session and caches them per scope set until they expire.
type TokenProvider struct {
	clientID  string
	keymaster keymaster
	now       func() time.Time

	mu     sync.Mutex
	tokens map[string]*oauth2.Token
}

func newTokenProvider(clientID string, km keymaster) *TokenProvider {
	if clientID == "" {
		clientID = DefaultKeymasterClientID
	}

	return &TokenProvider{
		clientID:  clientID,
		keymaster: km,
		now:       time.Now,
		tokens:    make(map[string]*oauth2.Token),
	}
}

// Get returns a bare access token for a single scope.
func (t *TokenProvider) Get(scope string) (string, error) {
	token, err := t.GetToken(scope)
	if err != nil {
		return "", err
	}
	if token == nil {
		return "", ErrTokenUnavailable
	}

	return token.AccessToken, nil
}

// GetToken returns a token covering all the given scopes. A nil token with a nil error means keymaster answered
// but had no token to give.
func (t *TokenProvider) GetToken(scopes ...string) (*oauth2.Token, error) {
	key := scopeKey(scopes)

	t.mu.Lock()
	defer t.mu.Unlock()

	if token, ok := t.tokens[key]; ok && token.Valid() {
		return token, nil
	}

	mt, err := t.keymaster.GetToken(t.clientID, key)
	if err != nil {
		return nil, err
	}
	if mt == nil || mt.AccessToken == "" {
		return nil, nil
	}

	token := &oauth2.Token{
		AccessToken: mt.AccessToken,
		TokenType:   mt.TokenType,
		Expiry:      t.now().Add(time.Duration(mt.ExpiresIn) * time.Second),
	}
	t.tokens[key] = token

	return token, nil
}

// scopeKey normalizes a scope list into the comma separated form keymaster expects.
func scopeKey(scopes []string) string {
	sorted := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		if scope = strings.TrimSpace(scope); scope != "" {
			sorted = append(sorted, scope)
		}
	}
	sort.Strings(sorted)

	return strings.Join(sorted, ",")
}
