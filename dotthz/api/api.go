// Package api is the capability surface the dotTHz convention requires from
// a hierarchical container engine: named groups carrying ordered scalar
// attributes and named shaped float32 datasets.
package api

// AttributeMap is an insertion-ordered, read-only view of a group's scalar
// attributes.
type AttributeMap interface {
	// Keys returns the attribute names in insertion order.
	Keys() []string
	// Get returns the value of the named attribute.  Values are string
	// (text scalar), float32 (numeric scalar) or []string (multi-entry
	// text).
	Get(key string) (val any, has bool)
}

// Dataset is a shaped float32 array.  Data is row-major and its length must
// equal the product of Shape.
type Dataset struct {
	Shape []int64
	Data  []float32
}

// NumElements returns the product of the shape, or 0 for a nil shape.
func (d *Dataset) NumElements() int64 {
	if len(d.Shape) == 0 {
		return 0
	}
	n := int64(1)
	for _, s := range d.Shape {
		n *= s
	}
	return n
}

// Rank returns the number of dimensions.
func (d *Dataset) Rank() int {
	return len(d.Shape)
}

// At returns the element at the given multi-dimensional index.
// The number of indices must equal the rank.
func (d *Dataset) At(idx ...int64) float32 {
	if len(idx) != len(d.Shape) {
		panic("dataset index rank mismatch")
	}
	off := int64(0)
	for i, x := range idx {
		if x < 0 || x >= d.Shape[i] {
			panic("dataset index out of range")
		}
		off = off*d.Shape[i] + x
	}
	return d.Data[off]
}

// Group is a handle to one named group in a container.  Handles are only
// valid while the owning Store is open.
type Group interface {
	Name() string

	// Attributes returns the group's attributes.
	Attributes() AttributeMap

	// SetAttribute writes an attribute, creating or overwriting it in
	// place.  value must be string, float32 or []string.
	SetAttribute(name string, value any) error

	// DeleteAttribute removes an attribute, or returns ErrNotFound.
	DeleteAttribute(name string) error

	// ListDatasets lists dataset names in creation order.
	ListDatasets() []string

	// GetDataset returns a copy of the named dataset or ErrNotFound.
	GetDataset(name string) (*Dataset, error)

	// CreateDataset stores a new dataset with the shape carried by ds.
	// Duplicate names are rejected with ErrExists.
	CreateDataset(name string, ds *Dataset) error
}

// Store is an open container.
type Store interface {
	// ReadOnly reports whether the store rejects writes.
	ReadOnly() bool

	// ListGroups lists group names in creation order.
	ListGroups() []string

	// GetGroup returns the named group or ErrNotFound.
	GetGroup(name string) (Group, error)

	// CreateGroup creates an empty group, or returns ErrExists.
	CreateGroup(name string) (Group, error)

	// Flush writes pending state to the backing medium, if any.
	Flush() error

	// Close flushes (when writable) and invalidates the store and every
	// handle derived from it.
	Close() error
}
