package vote

import "errors"

var (
	errLate      = errors.New("vote arrived after the session timed out")
	errClosed    = errors.New("vote session is already closed")
	errDuplicate = errors.New("agent has already voted")
)
