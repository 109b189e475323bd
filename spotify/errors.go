package spotify

import "errors"

var ErrSessionAlreadyLoggedIn = errors.New("spotify: session already logged in")
var ErrSessionNotLoggedIn = errors.New("spotify: session not logged in")
var ErrCredentialsNotFound = errors.New("spotify: stored credentials not found")
var ErrInvalidCredentials = errors.New("spotify: stored credentials are invalid")
var ErrTokenUnavailable = errors.New("spotify: keymaster returned no access token")
