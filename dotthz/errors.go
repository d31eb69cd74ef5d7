package dotthz

import (
	"errors"

	"github.com/dotthz/go-dotthz/dotthz/api"
)

// Shared error kinds from the engine capability surface, re-exported so
// callers only need this package.
var (
	ErrNotFound       = api.ErrNotFound
	ErrExists         = api.ErrExists
	ErrReadOnly       = api.ErrReadOnly
	ErrClosed         = api.ErrClosed
	ErrInvalidName    = api.ErrInvalidName
	ErrInvalidText    = api.ErrInvalidText
	ErrBadType        = api.ErrBadType
	ErrDimensionality = api.ErrDimensionality
)

var (
	// ErrUnknownFormat is returned when the target exists but is not a
	// dotTHz container.
	ErrUnknownFormat = errors.New("not a dotTHz container")

	// ErrEmptySlice is returned by NewDataset for empty slices, which
	// carry no shape.
	ErrEmptySlice = errors.New("empty slice encountered")
)
