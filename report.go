package connectcheck

import "golang.org/x/oauth2"

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeTimeout
	OutcomeFailure
)

func (o Outcome) String() string {
	if o < 0 || o > OutcomeFailure {
		return "Unknown"
	}
	return []string{"Success", "Timeout", "Failure"}[o]
}

// Report is the result of a single harness run.
type Report struct {
	Outcome          Outcome
	Username         string
	Token            string
	ScopedToken      *oauth2.Token
	CredentialsSaved bool
	Warnings         []string
	Err              error
}

func (r Report) Success() bool {
	return r.Outcome == OutcomeSuccess
}

// ExitCode maps the outcome to a process exit status. Timeout and failure share a status.
func (r Report) ExitCode() int {
	if r.Success() {
		return 0
	}
	return 1
}
