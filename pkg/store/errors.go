package store

import (
	"github.com/vango-dev/vstore/internal/errors"
)

// Sentinel errors raised by the runtime. Match them with errors.Is; the
// returned errors carry additional detail.
var (
	ErrNoActiveRegistry = errors.New("S001")
	ErrDuplicateStoreID = errors.New("S002")
	ErrUnknownAction    = errors.New("S003")
	ErrFuturePanic      = errors.New("S004")
	ErrUnknownGetter    = errors.New("S005")
)
