package spotify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// ZeroconfServer advertises a Spotify Connect device and holds the session created once a remote client transfers
// playback to it.
type ZeroconfServer struct {
	config     SessionConfig
	logger     zerolog.Logger
	baseLogger zerolog.Logger
	login      func(*Session) error

	mu      sync.RWMutex
	state   ServerState
	session *Session
	err     error
}

type ZeroconfServerBuilder struct {
	config SessionConfig
	logger zerolog.Logger
}

// NewZeroconfServerBuilder starts a builder from config. If no logging is desired, leave the logger unset and
// zerolog.Nop() is used.
func NewZeroconfServerBuilder(config SessionConfig) *ZeroconfServerBuilder {
	return &ZeroconfServerBuilder{
		config: config,
		logger: zerolog.Nop(),
	}
}

func (b *ZeroconfServerBuilder) DeviceName(name string) *ZeroconfServerBuilder {
	b.config.DeviceName = name
	return b
}

func (b *ZeroconfServerBuilder) StoreCredentials(store bool) *ZeroconfServerBuilder {
	b.config.StoreCredentials = store
	return b
}

func (b *ZeroconfServerBuilder) CredentialsPath(path string) *ZeroconfServerBuilder {
	b.config.CredentialsPath = path
	return b
}

func (b *ZeroconfServerBuilder) Logger(logger zerolog.Logger) *ZeroconfServerBuilder {
	b.logger = logger
	return b
}

// Create starts advertising in the background and returns immediately.
func (b *ZeroconfServerBuilder) Create() *ZeroconfServer {
	z := newZeroconfServer(b.config, b.logger, (*Session).LoginDiscovery)
	go z.serve()
	return z
}

func newZeroconfServer(config SessionConfig, logger zerolog.Logger, login func(*Session) error) *ZeroconfServer {
	return &ZeroconfServer{
		config:     config,
		logger:     logger.With().Str("package", "spotify").Str("device", config.DeviceName).Logger(),
		baseLogger: logger,
		login:      login,
		state:      ServerStateIdle,
	}
}

// Session returns the session established through discovery, if there is one yet.
func (z *ZeroconfServer) Session() (*Session, bool) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	return z.session, z.session != nil
}

func (z *ZeroconfServer) State() ServerState {
	z.mu.RLock()
	defer z.mu.RUnlock()

	return z.state
}

// Err returns the error that ended discovery, if any.
func (z *ZeroconfServer) Err() error {
	z.mu.RLock()
	defer z.mu.RUnlock()

	return z.err
}

func (z *ZeroconfServer) serve() {
	logger := z.logger.With().Str("goroutine", "serve()").Logger()
	z.setState(ServerStateAdvertising)
	logger.Info().Msg("advertising spotify connect device")

	session := NewSession(z.config, z.baseLogger)
	if err := z.login(session); err != nil {
		logger.Error().Err(err).Msg("discovery login failed")
		z.mu.Lock()
		z.state = ServerStateFailed
		z.err = err
		z.mu.Unlock()
		return
	}

	if z.config.StoreCredentials {
		if err := session.StoreCredentials(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("failed to store credentials")
		} else {
			logger.Info().Str("path", z.config.CredentialsPath).Msg("stored credentials")
		}
	}

	z.mu.Lock()
	z.session = session
	z.state = ServerStateConnected
	z.mu.Unlock()
}

func (z *ZeroconfServer) setState(state ServerState) {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.logger.Debug().
		Str("current", z.state.String()).
		Str("requested", state.String()).
		Msg("server state change")
	z.state = state
}
