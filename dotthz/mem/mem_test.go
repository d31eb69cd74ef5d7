package mem

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dotthz/go-dotthz/dotthz/api"
)

func TestGroupLifecycle(t *testing.T) {
	s := New()
	if s.ReadOnly() {
		t.Error("new store should be writable")
	}
	for _, name := range []string{"A", "B", "C"} {
		if _, err := s.CreateGroup(name); err != nil {
			t.Fatal(err)
		}
	}
	if !reflect.DeepEqual(s.ListGroups(), []string{"A", "B", "C"}) {
		t.Error("order", s.ListGroups())
	}
	if _, err := s.CreateGroup("B"); !errors.Is(err, api.ErrExists) {
		t.Error("duplicate", err)
	}
	if _, err := s.CreateGroup("no/good"); !errors.Is(err, api.ErrInvalidName) {
		t.Error("invalid name", err)
	}
	if _, err := s.GetGroup("missing"); !errors.Is(err, api.ErrNotFound) {
		t.Error("missing", err)
	}
}

func TestAttributesAndDatasets(t *testing.T) {
	s := New()
	g, err := s.CreateGroup("A")
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetAttribute("description", "sample"); err != nil {
		t.Fatal(err)
	}
	if err := g.SetAttribute("md1", float32(1.5)); err != nil {
		t.Fatal(err)
	}
	if v, _ := g.Attributes().Get("md1"); v != float32(1.5) {
		t.Error("md1", v)
	}
	if err := g.SetAttribute("bad", 7); !errors.Is(err, api.ErrBadType) {
		t.Error("type check", err)
	}

	ds := &api.Dataset{Shape: []int64{2, 2}, Data: []float32{1, 2, 3, 4}}
	if err := g.CreateDataset("ds1", ds); err != nil {
		t.Fatal(err)
	}
	got, err := g.GetDataset("ds1")
	if err != nil {
		t.Fatal(err)
	}
	if got.At(1, 0) != 3 {
		t.Error("value", got.Data)
	}
	bad := &api.Dataset{Shape: []int64{3}, Data: []float32{1}}
	if err := g.CreateDataset("ds2", bad); !errors.Is(err, api.ErrDimensionality) {
		t.Error("shape check", err)
	}
}

func TestReadOnlyAndClose(t *testing.T) {
	s := New()
	g, err := s.CreateGroup("A")
	if err != nil {
		t.Fatal(err)
	}
	s.SetReadOnly(true)
	if _, err := s.CreateGroup("B"); !errors.Is(err, api.ErrReadOnly) {
		t.Error("CreateGroup", err)
	}
	if err := g.SetAttribute("a", "b"); !errors.Is(err, api.ErrReadOnly) {
		t.Error("SetAttribute", err)
	}
	s.SetReadOnly(false)

	if err := s.Flush(); err != nil {
		t.Error("flush", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); !errors.Is(err, api.ErrClosed) {
		t.Error("double close", err)
	}
	if err := g.SetAttribute("a", "b"); !errors.Is(err, api.ErrClosed) {
		t.Error("after close", err)
	}
}
