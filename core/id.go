package core

import "github.com/google/uuid"

// NewID returns a random identifier for results, sessions and delegations.
func NewID() string { return uuid.NewString() }
