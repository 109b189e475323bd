package connectcheck

import (
	"golang.org/x/oauth2"

	"github.com/olympus-go/connectcheck/spotify"
)

// SessionSource is anything that may have produced a session. Session must not block.
type SessionSource interface {
	Session() (Session, bool)
}

type Session interface {
	Username() string
	Tokens() TokenProvider
}

// TokenProvider issues access tokens for named scopes. GetToken may return a nil token with a nil error when no token
// is available for the requested scopes.
type TokenProvider interface {
	Get(scope string) (string, error)
	GetToken(scopes ...string) (*oauth2.Token, error)
}

// ZeroconfSource adapts a spotify.ZeroconfServer into a SessionSource.
func ZeroconfSource(z *spotify.ZeroconfServer) SessionSource {
	return zeroconfSource{server: z}
}

type zeroconfSource struct {
	server *spotify.ZeroconfServer
}

func (z zeroconfSource) Session() (Session, bool) {
	s, ok := z.server.Session()
	if !ok {
		return nil, false
	}
	return spotifySession{session: s}, true
}

type spotifySession struct {
	session *spotify.Session
}

func (s spotifySession) Username() string {
	return s.session.Username()
}

func (s spotifySession) Tokens() TokenProvider {
	if tp := s.session.Tokens(); tp != nil {
		return tp
	}
	return nil
}
