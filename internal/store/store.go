package store

import (
	"context"
	"errors"

	"github.com/anxmeshhh/PrepIQ/internal/model"
)

// ErrNotFound is returned when a session id is unknown or expired
var ErrNotFound = errors.New("session not found")

// Store is the session registry. Implementations must be safe for
// concurrent use and must round-trip every Session field losslessly;
// callers serialize per-session mutations themselves.
type Store interface {
	// Put saves a session and refreshes its expiry
	Put(ctx context.Context, session *model.Session) error

	// Get returns a copy of the session or ErrNotFound
	Get(ctx context.Context, id string) (*model.Session, error)

	// Delete removes a session; deleting an unknown id is not an error
	Delete(ctx context.Context, id string) error
}
