package api

import "errors"

var (
	// ErrNotFound is returned for groups, datasets or attributes that
	// don't exist.
	ErrNotFound = errors.New("not found")

	// ErrExists is returned when creating a group or dataset whose name
	// is already taken.
	ErrExists = errors.New("already exists")

	// ErrReadOnly is returned for writes to a read-only container.
	ErrReadOnly = errors.New("container is read-only")

	// ErrClosed is returned when a store or a handle derived from it is
	// used after the store was closed.
	ErrClosed = errors.New("container is closed")

	// ErrInvalidName is returned for group, dataset or attribute names
	// the convention doesn't allow.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidText is returned when a text attribute value is not
	// valid UTF-8.
	ErrInvalidText = errors.New("text is not valid UTF-8")

	// ErrBadType is returned for attribute values of an unsupported
	// dynamic type.
	ErrBadType = errors.New("unsupported attribute type")

	// ErrDimensionality is returned when a dataset's data length does
	// not match the product of its shape.
	ErrDimensionality = errors.New("data length does not match shape")

	// ErrInternal is an internal error not otherwise specified here.
	ErrInternal = errors.New("internal error")
)
