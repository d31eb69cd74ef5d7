// Package mem implements an in-memory container engine.  It backs tests
// of the metadata codec and lets callers assemble a container before
// publishing it to a file-backed engine.
package mem

import (
	"fmt"
	"unicode/utf8"

	"github.com/dotthz/go-dotthz/dotthz/api"
	"github.com/dotthz/go-dotthz/dotthz/util"
	"github.com/dotthz/go-dotthz/internal"
)

// Store is an in-memory container.  Flush is a no-op; Close invalidates
// the store and its group handles like any other engine.
type Store struct {
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

// New returns an empty writable store.
func New() *Store {
	return &Store{byName: map[string]*group{}}
}

// SetReadOnly switches the store's write protection, for testing
// read-only behavior without a file.
func (s *Store) SetReadOnly(ro bool) {
	s.readOnly = ro
}

func (s *Store) ReadOnly() bool {
	return s.readOnly
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

func (s *Store) Flush() error {
	if s.closed {
		return api.ErrClosed
	}
	return nil
}

func (s *Store) Close() error {
	if s.closed {
		return api.ErrClosed
	}
	s.closed = true
	return nil
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
