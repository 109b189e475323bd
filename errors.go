package connectcheck

import "errors"

var ErrTimeout = errors.New("connectcheck: timed out waiting for a spotify connect transfer")
var ErrNoTokenProvider = errors.New("connectcheck: session has no token provider")
