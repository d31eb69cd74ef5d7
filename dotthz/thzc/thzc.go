// Package thzc implements the native dotTHz container engine: a single
// file holding an ordered set of groups, each with ordered scalar
// attributes and shaped float32 datasets.
//
// The on-disk layout is a four byte magic ("THZC") and a format version
// byte, followed by a deterministically encoded CBOR document.  The whole
// container is held in memory while open; Flush rewrites the file.  The
// engine is single-writer and does not lock the path.
package thzc

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/batchatco/go-thrower"

	"github.com/dotthz/go-dotthz/dotthz/api"
	"github.com/dotthz/go-dotthz/dotthz/util"
	"github.com/dotthz/go-dotthz/internal"
)

// Magic identifies a native container file.
var Magic = [4]byte{'T', 'H', 'Z', 'C'}

// engineVersion is the highest format version this engine reads and the
// version it writes.
const engineVersion = 1

var (
	ErrNotTHZC    = errors.New("not a THZC container")
	ErrVersion    = errors.New("THZC version not supported")
	ErrCorrupted  = errors.New("corrupted container")
	ErrBadPayload = errors.New("unknown attribute payload kind")
)

var logger = internal.NewLogger()

// SetLogLevel sets the logging level to the given level, and returns the
// old level.  This is for internal debugging use.  The lowest level is 0
// (fatal only) and the highest is 3 (errors, warnings and debug messages).
func SetLogLevel(level int) int {
	old := logger.LogLevel()
	switch level {
	case 0:
		logger.SetLogLevel(internal.LevelFatal)
	case 1:
		logger.SetLogLevel(internal.LevelError)
	case 2:
		logger.SetLogLevel(internal.LevelWarn)
	default:
		logger.SetLogLevel(internal.LevelInfo)
	}
	return int(old)
}

// Store is an open native container.
type Store struct {
	path     string
	readOnly bool
	closed   bool
	groups   []*group
	byName   map[string]*group
}

type group struct {
	store    *Store
	name     string
	attrs    *util.OrderedMap
	dsNames  []string
	datasets map[string]*api.Dataset
}

var _ api.Store = (*Store)(nil)
var _ api.Group = (*group)(nil)

// Create makes a new container at path.  With exclusive set it fails if
// the path already exists; otherwise an existing file is truncated.  The
// file is written immediately so the path holds a valid empty container
// even before the first Flush.
func Create(path string, exclusive bool) (*Store, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if exclusive {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", api.ErrExists, path)
		}
		return nil, err
	}
	s := &Store{
		path:   path,
		byName: map[string]*group{},
	}
	err = s.writeTo(f)
	err2 := f.Close()
	if err == nil {
		err = err2
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Open reads the container at path into memory.
func Open(path string, readOnly bool) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s := &Store{
		path:     path,
		readOnly: readOnly,
		byName:   map[string]*group{},
	}
	if err := s.readFrom(f); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ReadOnly() bool {
	return s.readOnly
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) ListGroups() []string {
	names := make([]string, len(s.groups))
	for i, g := range s.groups {
		names[i] = g.name
	}
	return names
}

func (s *Store) GetGroup(name string) (api.Group, error) {
	if s.closed {
		return nil, api.ErrClosed
	}
	g, has := s.byName[name]
	if !has {
		return nil, fmt.Errorf("%w: group %q", api.ErrNotFound, name)
	}
	return g, nil
}

func (s *Store) CreateGroup(name string) (api.Group, error) {
	if s.closed {
		return nil, api.ErrClosed
	}
	if s.readOnly {
		return nil, api.ErrReadOnly
	}
	if !internal.IsValidObjectName(name) {
		return nil, fmt.Errorf("%w: group %q", api.ErrInvalidName, name)
	}
	if _, has := s.byName[name]; has {
		return nil, fmt.Errorf("%w: group %q", api.ErrExists, name)
	}
	g := &group{
		store:    s,
		name:     name,
		attrs:    util.NewOrderedMap(),
		datasets: map[string]*api.Dataset{},
	}
	s.groups = append(s.groups, g)
	s.byName[name] = g
	return g, nil
}

// Flush rewrites the backing file.  It is a no-op for read-only stores.
func (s *Store) Flush() error {
	if s.closed {
		return api.ErrClosed
	}
	if s.readOnly {
		return nil
	}
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	err = s.writeTo(f)
	err2 := f.Close()
	if err == nil {
		err = err2
	}
	return err
}

// Close flushes pending state for writable stores and invalidates the
// store and all group handles derived from it.
func (s *Store) Close() error {
	if s.closed {
		return api.ErrClosed
	}
	var err error
	if !s.readOnly {
		err = s.Flush()
	}
	s.closed = true
	return err
}

func (g *group) Name() string {
	return g.name
}

func (g *group) Attributes() api.AttributeMap {
	return g.attrs
}

func (g *group) SetAttribute(name string, value any) error {
	if err := g.writable(); err != nil {
		return err
	}
	if !internal.IsValidObjectName(name) {
		return fmt.Errorf("%w: attribute %q", api.ErrInvalidName, name)
	}
	switch v := value.(type) {
	case string:
		if !utf8.ValidString(v) {
			return fmt.Errorf("%w: attribute %q", api.ErrInvalidText, name)
		}
	case []string:
		for _, entry := range v {
			if !utf8.ValidString(entry) {
				return fmt.Errorf("%w: attribute %q", api.ErrInvalidText, name)
			}
		}
	case float32:
	default:
		return fmt.Errorf("%w: attribute %q holds %T", api.ErrBadType, name, value)
	}
	g.attrs.Set(name, value)
	return nil
}

func (g *group) DeleteAttribute(name string) error {
	if err := g.writable(); err != nil {
		return err
	}
	if _, has := g.attrs.Get(name); !has {
		return fmt.Errorf("%w: attribute %q", api.ErrNotFound, name)
	}
	g.attrs.Delete(name)
	return nil
}

func (g *group) ListDatasets() []string {
	names := make([]string, len(g.dsNames))
	copy(names, g.dsNames)
	return names
}

func (g *group) GetDataset(name string) (*api.Dataset, error) {
	if g.store.closed {
		return nil, api.ErrClosed
	}
	ds, has := g.datasets[name]
	if !has {
		return nil, fmt.Errorf("%w: dataset %q", api.ErrNotFound, name)
	}
	return copyDataset(ds), nil
}

func (g *group) CreateDataset(name string, ds *api.Dataset) error {
	if err := g.writable(); err != nil {
		return err
	}
	if !internal.IsValidObjectName(name) {
		return fmt.Errorf("%w: dataset %q", api.ErrInvalidName, name)
	}
	if _, has := g.datasets[name]; has {
		return fmt.Errorf("%w: dataset %q", api.ErrExists, name)
	}
	if int64(len(ds.Data)) != ds.NumElements() {
		return fmt.Errorf("%w: dataset %q has %d elements, shape wants %d",
			api.ErrDimensionality, name, len(ds.Data), ds.NumElements())
	}
	g.dsNames = append(g.dsNames, name)
	g.datasets[name] = copyDataset(ds)
	return nil
}

func (g *group) writable() error {
	if g.store.closed {
		return api.ErrClosed
	}
	if g.store.readOnly {
		return api.ErrReadOnly
	}
	return nil
}

func copyDataset(ds *api.Dataset) *api.Dataset {
	out := &api.Dataset{
		Shape: make([]int64, len(ds.Shape)),
		Data:  make([]float32, len(ds.Data)),
	}
	copy(out.Shape, ds.Shape)
	copy(out.Data, ds.Data)
	return out
}

// Sniff reports whether the reader's first bytes carry the THZC magic.
func Sniff(header []byte) bool {
	return len(header) >= len(Magic) && string(header[:len(Magic)]) == string(Magic[:])
}

func (s *Store) readFrom(f *os.File) (err error) {
	defer thrower.RecoverError(&err)
	var magic [4]byte
	util.MustReadRaw(f, magic[:])
	if !Sniff(magic[:]) {
		thrower.Throw(ErrNotTHZC)
	}
	version := util.MustRead8(f)
	if version == 0 || version > engineVersion {
		thrower.Throw(ErrVersion)
	}
	doc := document{}
	if derr := decMode.NewDecoder(f).Decode(&doc); derr != nil {
		logger.Error("container body:", derr)
		thrower.Throw(ErrCorrupted)
	}
	for _, gd := range doc.Groups {
		if _, has := s.byName[gd.Name]; has {
			logger.Error("duplicate group", gd.Name)
			thrower.Throw(ErrCorrupted)
		}
		g := &group{
			store:    s,
			name:     gd.Name,
			attrs:    util.NewOrderedMap(),
			datasets: map[string]*api.Dataset{},
		}
		for _, ad := range gd.Attrs {
			val, aerr := ad.value()
			if aerr != nil {
				logger.Error("group", gd.Name, "attribute", ad.Name, ":", aerr)
				thrower.Throw(ErrCorrupted)
			}
			g.attrs.Set(ad.Name, val)
		}
		for _, dd := range gd.Datasets {
			ds := &api.Dataset{Shape: dd.Shape, Data: dd.Data}
			if int64(len(ds.Data)) != ds.NumElements() {
				logger.Error("group", gd.Name, "dataset", dd.Name, "shape mismatch")
				thrower.Throw(ErrCorrupted)
			}
			if _, has := g.datasets[dd.Name]; has {
				logger.Error("duplicate dataset", dd.Name, "in group", gd.Name)
				thrower.Throw(ErrCorrupted)
			}
			g.dsNames = append(g.dsNames, dd.Name)
			g.datasets[dd.Name] = ds
		}
		s.groups = append(s.groups, g)
		s.byName[gd.Name] = g
	}
	return nil
}

func (s *Store) writeTo(f *os.File) (err error) {
	defer thrower.RecoverError(&err)
	util.MustWriteRaw(f, Magic[:])
	util.MustWriteByte(f, engineVersion)
	doc := document{Groups: make([]groupDoc, 0, len(s.groups))}
	for _, g := range s.groups {
		gd := groupDoc{Name: g.name}
		for _, key := range g.attrs.Keys() {
			val, _ := g.attrs.Get(key)
			ad, aerr := newAttrDoc(key, val)
			thrower.ThrowIfError(aerr)
			gd.Attrs = append(gd.Attrs, ad)
		}
		for _, name := range g.dsNames {
			ds := g.datasets[name]
			gd.Datasets = append(gd.Datasets, datasetDoc{
				Name:  name,
				Shape: ds.Shape,
				Data:  ds.Data,
			})
		}
		doc.Groups = append(doc.Groups, gd)
	}
	werr := encMode.NewEncoder(f).Encode(&doc)
	thrower.ThrowIfError(werr)
	return nil
}
