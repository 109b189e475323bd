package connectcheck_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/olympus-go/connectcheck"
)

type fakeClock interface {
	clockwork.Clock
	Advance(time.Duration)
	BlockUntilContext(context.Context, int) error
}

type fakeTokens struct {
	calls    []string
	token    string
	tokenErr error
	scoped   *oauth2.Token
	scopeErr error
}

func (f *fakeTokens) Get(scope string) (string, error) {
	f.calls = append(f.calls, "get:"+scope)
	return f.token, f.tokenErr
}

func (f *fakeTokens) GetToken(scopes ...string) (*oauth2.Token, error) {
	call := "get_token:"
	for i, scope := range scopes {
		if i > 0 {
			call += ","
		}
		call += scope
	}
	f.calls = append(f.calls, call)
	return f.scoped, f.scopeErr
}

type fakeSession struct {
	username string
	tokens   *fakeTokens
}

func (f fakeSession) Username() string { return f.username }

func (f fakeSession) Tokens() connectcheck.TokenProvider { return f.tokens }

// fakeSource hands out its session once the clock reaches readyAt. A zero readyAt never resolves.
type fakeSource struct {
	clock   clockwork.Clock
	readyAt time.Time
	session connectcheck.Session
	queries int
}

func (f *fakeSource) Session() (connectcheck.Session, bool) {
	f.queries++
	if f.readyAt.IsZero() || f.clock.Now().Before(f.readyAt) {
		return nil, false
	}
	return f.session, true
}

// run drives the harness by advancing the fake clock each time it sleeps until the run returns.
func run(t *testing.T, h *connectcheck.Harness, fc fakeClock) connectcheck.Report {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan connectcheck.Report, 1)
	go func() {
		done <- h.Run(ctx)
		cancel()
	}()

	for fc.BlockUntilContext(ctx, 1) == nil {
		fc.Advance(time.Second)
	}

	select {
	case report := <-done:
		return report
	case <-time.After(5 * time.Second):
		t.Fatal("harness did not return")
		return connectcheck.Report{}
	}
}

func TestHarness_Run(t *testing.T) {
	type test struct {
		readyAfter time.Duration
		tokens     *fakeTokens
		saved      bool
		outcome    connectcheck.Outcome
		warnings   []string
		errMsg     string
	}

	tests := map[string]test{
		"all_checks_pass": {
			readyAfter: 5 * time.Second,
			tokens:     &fakeTokens{token: "abc123abc123abc123abc123token", scoped: &oauth2.Token{AccessToken: "xyz789xyz789xyz789xyz789token"}},
			saved:      true,
			outcome:    connectcheck.OutcomeSuccess,
		},
		"scoped_token_missing": {
			readyAfter: 3 * time.Second,
			tokens:     &fakeTokens{token: "abc123"},
			saved:      true,
			outcome:    connectcheck.OutcomeSuccess,
			warnings:   []string{"scoped token not available"},
		},
		"credentials_missing": {
			readyAfter: 3 * time.Second,
			tokens:     &fakeTokens{token: "abc123", scoped: &oauth2.Token{AccessToken: "xyz789"}},
			saved:      false,
			outcome:    connectcheck.OutcomeSuccess,
			warnings:   []string{"credentials not saved"},
		},
		"token_fetch_fails": {
			readyAfter: 10 * time.Second,
			tokens:     &fakeTokens{tokenErr: errors.New("network unreachable")},
			outcome:    connectcheck.OutcomeFailure,
			errMsg:     "network unreachable",
		},
		"scoped_token_fails": {
			readyAfter: 2 * time.Second,
			tokens:     &fakeTokens{token: "abc123", scopeErr: errors.New("keymaster: 503")},
			outcome:    connectcheck.OutcomeFailure,
			errMsg:     "keymaster: 503",
		},
	}

	for name, tst := range tests {
		t.Run(name, func(t *testing.T) {
			fc := clockwork.NewFakeClock()
			source := &fakeSource{
				clock:   fc,
				readyAt: fc.Now().Add(tst.readyAfter),
				session: fakeSession{username: "apollo", tokens: tst.tokens},
			}

			var out bytes.Buffer
			h := connectcheck.New(source, connectcheck.DefaultConfig(),
				connectcheck.WithClock(fc),
				connectcheck.WithOutput(&out),
				connectcheck.WithCredentialCheck(func(context.Context, string) (bool, error) { return tst.saved, nil }),
			)

			report := run(t, h, fc)

			assert.Equal(t, tst.outcome, report.Outcome)
			assert.Equal(t, "apollo", report.Username)
			assert.Equal(t, tst.warnings, report.Warnings)
			if tst.errMsg != "" {
				require.Error(t, report.Err)
				assert.Contains(t, report.Err.Error(), tst.errMsg)
				assert.Contains(t, out.String(), tst.errMsg)
				assert.Equal(t, 1, report.ExitCode())
			} else {
				assert.NoError(t, report.Err)
				assert.Equal(t, 0, report.ExitCode())
			}
			assert.Equal(t, int(tst.readyAfter/time.Second), source.queries)
		})
	}
}

func TestHarness_RunTokenOrder(t *testing.T) {
	fc := clockwork.NewFakeClock()
	tokens := &fakeTokens{token: "abc123", scoped: &oauth2.Token{AccessToken: "xyz789"}}
	source := &fakeSource{clock: fc, readyAt: fc.Now().Add(time.Second), session: fakeSession{"apollo", tokens}}

	var checked []string
	h := connectcheck.New(source, connectcheck.DefaultConfig(),
		connectcheck.WithClock(fc),
		connectcheck.WithCredentialCheck(func(_ context.Context, path string) (bool, error) {
			checked = append(checked, path)
			assert.Len(t, tokens.calls, 2, "credentials checked before both token fetches")
			return true, nil
		}),
	)

	report := run(t, h, fc)

	require.True(t, report.Success())
	assert.Equal(t, []string{"get:playlist-read", "get_token:user-read-email,user-read-private"}, tokens.calls)
	assert.Equal(t, []string{"credentials.json"}, checked)
	assert.Equal(t, "abc123", report.Token)
	assert.Equal(t, "xyz789", report.ScopedToken.AccessToken)
	assert.True(t, report.CredentialsSaved)
}

func TestHarness_RunTimeout(t *testing.T) {
	fc := clockwork.NewFakeClock()
	start := fc.Now()
	source := &fakeSource{clock: fc}

	var out bytes.Buffer
	h := connectcheck.New(source, connectcheck.DefaultConfig(), connectcheck.WithClock(fc), connectcheck.WithOutput(&out))

	report := run(t, h, fc)

	assert.Equal(t, connectcheck.OutcomeTimeout, report.Outcome)
	assert.ErrorIs(t, report.Err, connectcheck.ErrTimeout)
	assert.False(t, report.Success())
	assert.Equal(t, 1, report.ExitCode())
	assert.Equal(t, 61*time.Second, fc.Since(start))
	assert.Equal(t, 60, source.queries)
	assert.Contains(t, out.String(), "Timeout after 1m0s")
}

func TestHarness_RunCredentialCheckError(t *testing.T) {
	fc := clockwork.NewFakeClock()
	tokens := &fakeTokens{token: "abc123"}
	source := &fakeSource{clock: fc, readyAt: fc.Now(), session: fakeSession{"apollo", tokens}}

	h := connectcheck.New(source, connectcheck.DefaultConfig(),
		connectcheck.WithClock(fc),
		connectcheck.WithCredentialCheck(func(context.Context, string) (bool, error) {
			return false, errors.New("permission denied")
		}),
	)

	report := run(t, h, fc)

	assert.Equal(t, connectcheck.OutcomeFailure, report.Outcome)
	assert.ErrorContains(t, report.Err, "permission denied")
}

func TestHarness_RunNoTokenProvider(t *testing.T) {
	fc := clockwork.NewFakeClock()
	source := &fakeSource{clock: fc, readyAt: fc.Now(), session: nilTokensSession{}}

	h := connectcheck.New(source, connectcheck.DefaultConfig(), connectcheck.WithClock(fc))
	report := run(t, h, fc)

	assert.Equal(t, connectcheck.OutcomeFailure, report.Outcome)
	assert.ErrorIs(t, report.Err, connectcheck.ErrNoTokenProvider)
}

func TestHarness_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := connectcheck.New(&fakeSource{clock: clockwork.NewFakeClock()}, connectcheck.DefaultConfig(),
		connectcheck.WithClock(clockwork.NewFakeClock()))
	report := h.Run(ctx)

	assert.Equal(t, connectcheck.OutcomeFailure, report.Outcome)
	assert.ErrorIs(t, report.Err, context.Canceled)
}

type nilTokensSession struct{}

func (nilTokensSession) Username() string { return "apollo" }

func (nilTokensSession) Tokens() connectcheck.TokenProvider { return nil }

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "Success", connectcheck.OutcomeSuccess.String())
	assert.Equal(t, "Timeout", connectcheck.OutcomeTimeout.String())
	assert.Equal(t, "Failure", connectcheck.OutcomeFailure.String())
	assert.Equal(t, "Unknown", connectcheck.Outcome(-1).String())
}
