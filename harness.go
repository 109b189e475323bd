package connectcheck

import (
	"context"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/olympus-go/connectcheck/spotify"
)

// tokenPreview is how many characters of a token are printed.
const tokenPreview = 20

// CredentialCheck reports whether persisted credentials exist at path.
type CredentialCheck func(ctx context.Context, path string) (bool, error)

// Harness waits for an externally triggered Spotify Connect session and then verifies token retrieval and credential
// persistence against it.
type Harness struct {
	source SessionSource
	config Config

	clock       clockwork.Clock
	out         io.Writer
	credentials CredentialCheck
	logger      zerolog.Logger
}

type Option func(*Harness)

func WithClock(clock clockwork.Clock) Option {
	return func(h *Harness) { h.clock = clock }
}

func WithOutput(w io.Writer) Option {
	return func(h *Harness) { h.out = w }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

func WithCredentialCheck(check CredentialCheck) Option {
	return func(h *Harness) { h.credentials = check }
}

// New creates a harness polling source. Without options it uses the real clock, discards output, does not log, and
// checks credentials on the local filesystem.
func New(source SessionSource, config Config, opts ...Option) *Harness {
	h := Harness{
		source:      source,
		config:      config,
		clock:       clockwork.NewRealClock(),
		out:         io.Discard,
		credentials: credentialsExist,
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&h)
	}
	h.logger = h.logger.With().Str("package", "connectcheck").Logger()

	return &h
}

// Run blocks until a session shows up, the timeout passes, or ctx is done. Verification happens at most once.
func (h *Harness) Run(ctx context.Context) Report {
	h.printInstructions()

	start := h.clock.Now()
	for {
		select {
		case <-ctx.Done():
			h.logger.Warn().Err(ctx.Err()).Msg("run cancelled")
			return Report{Outcome: OutcomeFailure, Err: ctx.Err()}
		case <-h.clock.After(h.config.PollInterval):
		}

		elapsed := h.clock.Since(start)
		if elapsed > h.config.Timeout {
			h.printTimeout()
			h.logger.Warn().Dur("elapsed", elapsed).Msg("no session before timeout")
			return Report{Outcome: OutcomeTimeout, Err: ErrTimeout}
		}

		session, ok := h.source.Session()
		if !ok {
			h.logger.Debug().Dur("elapsed", elapsed).Msg("no session yet")
			continue
		}

		return h.verify(ctx, session)
	}
}

func (h *Harness) verify(ctx context.Context, session Session) Report {
	report := Report{Username: session.Username()}
	logger := h.logger.With().Str("username", report.Username).Logger()
	fmt.Fprintf(h.out, "\n✓ Got session for user: %s\n", report.Username)

	tokens := session.Tokens()
	if tokens == nil {
		return h.fail(report, ErrNoTokenProvider)
	}

	token, err := tokens.Get(h.config.Scope)
	if err != nil {
		return h.fail(report, fmt.Errorf("failed to get %s token: %w", h.config.Scope, err))
	}
	report.Token = token
	fmt.Fprintf(h.out, "✓ Got %s token: %s...\n", h.config.Scope, preview(token))

	scoped, err := tokens.GetToken(h.config.Scopes...)
	if err != nil {
		return h.fail(report, fmt.Errorf("failed to get scoped token: %w", err))
	}
	if scoped != nil {
		report.ScopedToken = scoped
		fmt.Fprintf(h.out, "✓ Scoped token available: %s...\n", preview(scoped.AccessToken))
	} else {
		report.Warnings = append(report.Warnings, "scoped token not available")
		logger.Warn().Strs("scopes", h.config.Scopes).Msg("scoped token not available")
		fmt.Fprintln(h.out, "⚠ Scoped token not available")
	}

	saved, err := h.credentials(ctx, h.config.CredentialsPath)
	if err != nil {
		return h.fail(report, fmt.Errorf("failed to check credentials: %w", err))
	}
	report.CredentialsSaved = saved
	if saved {
		fmt.Fprintf(h.out, "✓ Credentials saved to %s\n", h.config.CredentialsPath)
		fmt.Fprintln(h.out, "\nYou can now use the stored credentials for future tests!")
	} else {
		report.Warnings = append(report.Warnings, "credentials not saved")
		logger.Warn().Str("path", h.config.CredentialsPath).Msg("credentials not saved")
		fmt.Fprintln(h.out, "⚠ Credentials not saved")
	}

	report.Outcome = OutcomeSuccess
	return report
}

func (h *Harness) fail(report Report, err error) Report {
	h.logger.Error().Err(err).Str("username", report.Username).Msg("token test failed")
	fmt.Fprintf(h.out, "✗ Token test failed: %s\n", err)

	report.Outcome = OutcomeFailure
	report.Err = err
	return report
}

func (h *Harness) printInstructions() {
	fmt.Fprintln(h.out, "IMPORTANT: This test requires a Spotify Connect transfer!")
	fmt.Fprintln(h.out, "1. Open Spotify on your phone/computer")
	fmt.Fprintln(h.out, "2. Start playing some music")
	fmt.Fprintf(h.out, "3. Look for '%s' in Spotify Connect devices\n", h.config.DeviceName)
	fmt.Fprintf(h.out, "4. Click on '%s' to transfer playback to it\n", h.config.DeviceName)
	fmt.Fprintln(h.out, "5. Wait for credentials to be stored...")
	fmt.Fprintln(h.out, "\nWaiting for Spotify Connect transfer...")
}

func (h *Harness) printTimeout() {
	fmt.Fprintf(h.out, "\n⚠ Timeout after %s\n", h.config.Timeout)
	fmt.Fprintln(h.out, "Make sure you:")
	fmt.Fprintln(h.out, "- Have Spotify open on another device")
	fmt.Fprintf(h.out, "- Can see '%s' in Spotify Connect\n", h.config.DeviceName)
	fmt.Fprintln(h.out, "- Transfer playback to it")
}

func preview(token string) string {
	if len(token) > tokenPreview {
		return token[:tokenPreview]
	}
	return token
}

func credentialsExist(ctx context.Context, path string) (bool, error) {
	return spotify.NewCredentialStore(path).Exists(ctx)
}
