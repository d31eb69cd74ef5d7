// Package dotthz reads and writes dotTHz measurement containers: a flat
// collection of named groups, each carrying one structured metadata record
// and zero or more shaped float32 datasets.
//
// The package is a convention over a generic hierarchical store.  The
// metadata codec maps the Metadata record onto the store's scalar
// attribute namespace (see EncodeMetadata and DecodeMetadata); the store
// itself is consumed through the api package and provided by the thzc
// (file-backed) and mem (in-memory) engines.
//
// Containers are single-writer and fully synchronous.  All Group handles
// derived from a File become invalid when the File is closed.
package dotthz

import (
	"errors"
	"io"
	"os"

	"github.com/dotthz/go-dotthz/dotthz/api"
	"github.com/dotthz/go-dotthz/dotthz/thzc"
)

// Mode selects how a container is opened.
type Mode int

const (
	ModeCreate          Mode = iota // create, truncating an existing file
	ModeCreateExclusive             // create, failing if the path exists
	ModeReadOnly                    // open an existing container for reading
	ModeReadWrite                   // open an existing container for writing
	ModeOpenOrCreate                // open for writing, creating if absent
)

// ErrBadMode is returned by OpenAs for an unknown mode.
var ErrBadMode = errors.New("invalid open mode")

// File is an open container.
type File struct {
	path   string
	mode   Mode
	store  api.Store
	closed bool
}

// Create makes a container at path, truncating an existing file.
func Create(path string) (*File, error) {
	return OpenAs(path, ModeCreate)
}

// CreateExclusive makes a container at path, failing with ErrExists if the
// path already exists.
func CreateExclusive(path string) (*File, error) {
	return OpenAs(path, ModeCreateExclusive)
}

// Open opens an existing container read-only.
func Open(path string) (*File, error) {
	return OpenAs(path, ModeReadOnly)
}

// OpenRW opens an existing container for reading and writing.
func OpenRW(path string) (*File, error) {
	return OpenAs(path, ModeReadWrite)
}

// OpenOrCreate opens a container for writing, creating it if the path does
// not exist ("append" semantics).
func OpenOrCreate(path string) (*File, error) {
	return OpenAs(path, ModeOpenOrCreate)
}

// OpenAs opens a container in the given mode.
func OpenAs(path string, mode Mode) (*File, error) {
	var store api.Store
	var err error
	switch mode {
	case ModeCreate:
		store, err = thzc.Create(path, false)
	case ModeCreateExclusive:
		store, err = thzc.Create(path, true)
	case ModeReadOnly:
		store, err = openStore(path, true)
	case ModeReadWrite:
		store, err = openStore(path, false)
	case ModeOpenOrCreate:
		if _, serr := os.Stat(path); errors.Is(serr, os.ErrNotExist) {
			store, err = thzc.Create(path, false)
		} else {
			store, err = openStore(path, false)
		}
	default:
		return nil, ErrBadMode
	}
	if err != nil {
		return nil, err
	}
	return &File{path: path, mode: mode, store: store}, nil
}

// Wrap adapts an already-open engine store into a File.  The mode is
// inferred from the store: read-only stores reject writes, writable ones
// get append semantics.
func Wrap(store api.Store) *File {
	mode := ModeOpenOrCreate
	if store.ReadOnly() {
		mode = ModeReadOnly
	}
	return &File{mode: mode, store: store}
}

// openStore sniffs the file's magic and dispatches to the matching engine.
func openStore(path string, readOnly bool) (api.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	header, kerr := getKind(f)
	f.Close()
	if kerr != nil {
		return nil, ErrUnknownFormat
	}
	if thzc.Sniff(header) {
		return thzc.Open(path, readOnly)
	}
	return nil, ErrUnknownFormat
}

func getKind(f io.Reader) ([]byte, error) {
	var b [4]byte
	if _, err := io.ReadFull(f, b[:]); err != nil {
		return nil, err
	}
	return b[:], nil
}

// Close flushes writable containers and invalidates the File and every
// Group handle derived from it.  A second Close fails with ErrClosed.
func (f *File) Close() error {
	if f.closed {
		return ErrClosed
	}
	f.closed = true
	return f.store.Close()
}

// Flush writes pending state to the backing medium.
func (f *File) Flush() error {
	if f.closed {
		return ErrClosed
	}
	return f.store.Flush()
}

// Path returns the backing file path, or "" for wrapped stores.
func (f *File) Path() string {
	return f.path
}

// IsReadOnly reports whether the container rejects writes.
func (f *File) IsReadOnly() bool {
	return f.store.ReadOnly()
}

// Size returns the backing file size in bytes, or 0 when it is unknown.
func (f *File) Size() int64 {
	if f.path == "" {
		return 0
	}
	info, err := os.Stat(f.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// GroupNames lists group names in creation order.
func (f *File) GroupNames() ([]string, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return f.store.ListGroups(), nil
}

// Group returns a handle to the named group, or ErrNotFound.
func (f *File) Group(name string) (*Group, error) {
	if f.closed {
		return nil, ErrClosed
	}
	eng, err := f.store.GetGroup(name)
	if err != nil {
		return nil, err
	}
	return &Group{file: f, name: name, eng: eng}, nil
}

// Groups returns handles to all groups in creation order.
func (f *File) Groups() ([]*Group, error) {
	names, err := f.GroupNames()
	if err != nil {
		return nil, err
	}
	groups := make([]*Group, 0, len(names))
	for _, name := range names {
		g, err := f.Group(name)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// AddGroup creates a group and encodes md onto it.  If the name is taken,
// the behavior depends on the open mode: under ModeCreateExclusive the
// call fails with ErrExists, otherwise the existing group's metadata is
// rewritten in place.
func (f *File) AddGroup(name string, md *Metadata) (*Group, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if f.store.ReadOnly() {
		return nil, ErrReadOnly
	}
	eng, err := f.store.CreateGroup(name)
	if errors.Is(err, ErrExists) && f.mode != ModeCreateExclusive {
		eng, err = f.store.GetGroup(name)
	}
	if err != nil {
		return nil, err
	}
	g := &Group{file: f, name: name, eng: eng}
	if md != nil {
		if err := g.SetMetadata(md); err != nil {
			return nil, err
		}
	}
	return g, nil
}
