package dotthz

import (
	"github.com/dotthz/go-dotthz/dotthz/api"
)

// Group is a handle to one measurement group.  It is a non-owning
// reference: once the File that produced it is closed, every operation
// fails with ErrClosed.
type Group struct {
	file *File
	name string
	eng  api.Group
}

// Name returns the group name.
func (g *Group) Name() string {
	return g.name
}

// Metadata decodes the group's metadata record.  Decoding is best-effort;
// absent attributes leave their fields at the defaults.
func (g *Group) Metadata() (*Metadata, error) {
	if g.file.closed {
		return nil, ErrClosed
	}
	return DecodeMetadata(g.eng), nil
}

// SetMetadata encodes md onto the group, rewriting every attribute slot
// the convention owns.  The write sequence is not transactional.
func (g *Group) SetMetadata(md *Metadata) error {
	if g.file.closed {
		return ErrClosed
	}
	if g.file.store.ReadOnly() {
		return ErrReadOnly
	}
	return EncodeMetadata(g.eng, md)
}

// DeleteMetadataAttribute removes one attribute from the group.
func (g *Group) DeleteMetadataAttribute(name string) error {
	if g.file.closed {
		return ErrClosed
	}
	return g.eng.DeleteAttribute(name)
}

// DatasetNames lists the group's dataset names in creation order.
func (g *Group) DatasetNames() ([]string, error) {
	if g.file.closed {
		return nil, ErrClosed
	}
	return g.eng.ListDatasets(), nil
}

// Dataset returns a copy of the named dataset, or ErrNotFound.
func (g *Group) Dataset(name string) (*Dataset, error) {
	if g.file.closed {
		return nil, ErrClosed
	}
	return g.eng.GetDataset(name)
}

// Datasets returns copies of all the group's datasets in creation order.
func (g *Group) Datasets() ([]*Dataset, error) {
	names, err := g.DatasetNames()
	if err != nil {
		return nil, err
	}
	out := make([]*Dataset, 0, len(names))
	for _, name := range names {
		ds, err := g.Dataset(name)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

// AddDataset stores a new dataset under the group.  The shape is taken
// from ds; duplicate names fail with ErrExists.
func (g *Group) AddDataset(name string, ds *Dataset) error {
	if g.file.closed {
		return ErrClosed
	}
	return g.eng.CreateDataset(name, ds)
}
