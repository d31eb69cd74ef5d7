package dotthz

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dotthz/go-dotthz/dotthz/api"
	"github.com/dotthz/go-dotthz/dotthz/mem"
)

func newGroup(t *testing.T) api.Group {
	t.Helper()
	s := mem.New()
	g, err := s.CreateGroup("Measurement")
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func sampleMetadata() *Metadata {
	md := &Metadata{
		User:        "Test User",
		Email:       "test@example.com",
		ORCID:       "0000-0001-2345-6789",
		Institution: "Test Institute",
		Description: "reference sample, 25 °C",
		Version:     "1.00",
		Mode:        "THz-TDS",
		Instrument:  "Toptica TeraFlash",
		Time:        "12:34:56",
		Date:        "2026-08-26",
	}
	md.Annotations.Set("Thickness (mm)", "0.52")
	md.Annotations.Set("Comment", "very noisy")
	md.DatasetDescriptions = []string{"Sample", "Reference"}
	return md
}

func TestScalarRoundTrip(t *testing.T) {
	g := newGroup(t)
	want := sampleMetadata()
	if err := EncodeMetadata(g, want); err != nil {
		t.Fatal(err)
	}
	got := DecodeMetadata(g)

	if got.User != want.User || got.Email != want.Email ||
		got.ORCID != want.ORCID || got.Institution != want.Institution {
		t.Error("identity quartet", got)
	}
	if got.Description != want.Description || got.Mode != want.Mode ||
		got.Instrument != want.Instrument || got.Time != want.Time ||
		got.Date != want.Date || got.Version != want.Version {
		t.Error("scalar fields", got)
	}
	if !reflect.DeepEqual(got.DatasetDescriptions, want.DatasetDescriptions) {
		t.Error("dataset descriptions", got.DatasetDescriptions)
	}
}

func TestAnnotationOrderPreserved(t *testing.T) {
	g := newGroup(t)
	want := &Metadata{}
	want.Annotations.Set("zeta", "last? no, first")
	want.Annotations.Set("alpha", "second")
	want.Annotations.Set("mid", "third")
	if err := EncodeMetadata(g, want); err != nil {
		t.Fatal(err)
	}
	got := DecodeMetadata(g)
	if !reflect.DeepEqual(got.Annotations.Keys(), want.Annotations.Keys()) {
		t.Error("key order", got.Annotations.Keys())
	}
}

func TestNumericAnnotationRoundTrip(t *testing.T) {
	g := newGroup(t)
	want := &Metadata{}
	want.Annotations.Set("Thickness (mm)", "0.52")
	want.Annotations.Set("Voltage", "3")
	// a float literal with formatting the decoder won't reproduce
	want.Annotations.Set("Padded", "0.520")
	if err := EncodeMetadata(g, want); err != nil {
		t.Fatal(err)
	}
	got := DecodeMetadata(g)
	if v, _ := got.Annotations.Get("Thickness (mm)"); v != "0.52" {
		t.Error("thickness", v)
	}
	if v, _ := got.Annotations.Get("Voltage"); v != "3" {
		t.Error("voltage", v)
	}
	// formatting is not stable, but the parsed value is
	if v, _ := got.Annotations.Get("Padded"); v != "0.52" {
		t.Error("padded", v)
	}
}

func TestTextAnnotationKeepsText(t *testing.T) {
	g := newGroup(t)
	want := &Metadata{}
	want.Annotations.Set("Comment", "very noisy")
	if err := EncodeMetadata(g, want); err != nil {
		t.Fatal(err)
	}
	attrs := g.Attributes()
	if v, _ := attrs.Get("md1"); v != "very noisy" {
		t.Error("stored as", v)
	}
	got := DecodeMetadata(g)
	if v, _ := got.Annotations.Get("Comment"); v != "very noisy" {
		t.Error("decoded as", v)
	}
}

// A joined single-entry descriptor and a legacy multi-entry descriptor must
// decode to the same ordered key list.
func TestDualDescriptorEncoding(t *testing.T) {
	s := mem.New()
	stored := [][]string{
		{"Thickness (mm), Voltage"},   // current
		{"Thickness (mm)", "Voltage"}, // legacy
	}
	names := []string{"joined", "multi"}
	wantKeys := []string{"Thickness (mm)", "Voltage"}
	for i, entries := range stored {
		g, err := s.CreateGroup(names[i])
		if err != nil {
			t.Fatal(err)
		}
		if err := g.SetAttribute("mdDescription", entries); err != nil {
			t.Fatal(err)
		}
		if err := g.SetAttribute("md1", float32(0.52)); err != nil {
			t.Fatal(err)
		}
		if err := g.SetAttribute("md2", "high"); err != nil {
			t.Fatal(err)
		}
		md := DecodeMetadata(g)
		if !reflect.DeepEqual(md.Annotations.Keys(), wantKeys) {
			t.Error(names[i], "keys", md.Annotations.Keys())
		}
		if v, _ := md.Annotations.Get("Thickness (mm)"); v != "0.52" {
			t.Error(names[i], "md1", v)
		}
		if v, _ := md.Annotations.Get("Voltage"); v != "high" {
			t.Error(names[i], "md2", v)
		}
	}
}

func TestDualDatasetDescriptorEncoding(t *testing.T) {
	s := mem.New()
	stored := [][]string{
		{"Sample, Reference"},
		{"Sample", "Reference"},
	}
	names := []string{"joined", "multi"}
	for i, entries := range stored {
		g, err := s.CreateGroup(names[i])
		if err != nil {
			t.Fatal(err)
		}
		if err := g.SetAttribute("dsDescription", entries); err != nil {
			t.Fatal(err)
		}
		md := DecodeMetadata(g)
		if !reflect.DeepEqual(md.DatasetDescriptions, []string{"Sample", "Reference"}) {
			t.Error(names[i], md.DatasetDescriptions)
		}
	}
}

func TestIdentityComposite(t *testing.T) {
	md := &Metadata{
		ORCID:       "0000-0001-2345-6789",
		User:        "Test User",
		Email:       "test@example.com",
		Institution: "Test Institute",
	}
	const want = "0000-0001-2345-6789/Test User/test@example.com/Test Institute"
	if got := md.composite(); got != want {
		t.Error("composite", got)
	}
	back := &Metadata{}
	back.splitComposite(want)
	if back.ORCID != md.ORCID || back.User != md.User ||
		back.Email != md.Email || back.Institution != md.Institution {
		t.Error("split", back)
	}
}

func TestCompositeFewerParts(t *testing.T) {
	md := &Metadata{}
	md.splitComposite("0000-0001-2345-6789/Jane")
	if md.ORCID != "0000-0001-2345-6789" || md.User != "Jane" {
		t.Error("leading parts", md)
	}
	if md.Email != "" || md.Institution != "" {
		t.Error("trailing parts should stay empty", md)
	}
}

func TestAbsentAttributesDecodeToDefaults(t *testing.T) {
	g := newGroup(t)
	md := DecodeMetadata(g)
	if !reflect.DeepEqual(md, &Metadata{}) {
		t.Error("expected zero record", md)
	}
}

func TestMissingInstrumentIsNotAnError(t *testing.T) {
	g := newGroup(t)
	want := sampleMetadata()
	if err := EncodeMetadata(g, want); err != nil {
		t.Fatal(err)
	}
	if err := g.DeleteAttribute("instrument"); err != nil {
		t.Fatal(err)
	}
	got := DecodeMetadata(g)
	if got.Instrument != "" {
		t.Error("instrument", got.Instrument)
	}
	if got.User != want.User || got.Description != want.Description {
		t.Error("other fields disturbed", got)
	}
}

// Annotation keys whose positional attribute is unreadable are silently
// omitted.
func TestMissingPositionalAttributeOmitsKey(t *testing.T) {
	g := newGroup(t)
	if err := g.SetAttribute("mdDescription", []string{"First, Second"}); err != nil {
		t.Fatal(err)
	}
	if err := g.SetAttribute("md1", "present"); err != nil {
		t.Fatal(err)
	}
	// md2 never written
	md := DecodeMetadata(g)
	if !reflect.DeepEqual(md.Annotations.Keys(), []string{"First"}) {
		t.Error("keys", md.Annotations.Keys())
	}
}

// Encode rewrites every slot it owns, so stale positional attributes from
// a longer previous record don't leak keys into a shorter one (the stale
// mdN attribute itself survives, but no descriptor references it).
func TestReencodeShrinksKeyList(t *testing.T) {
	g := newGroup(t)
	first := &Metadata{}
	first.Annotations.Set("a", "1")
	first.Annotations.Set("b", "2")
	if err := EncodeMetadata(g, first); err != nil {
		t.Fatal(err)
	}
	second := &Metadata{}
	second.Annotations.Set("only", "3")
	if err := EncodeMetadata(g, second); err != nil {
		t.Fatal(err)
	}
	md := DecodeMetadata(g)
	if !reflect.DeepEqual(md.Annotations.Keys(), []string{"only"}) {
		t.Error("keys", md.Annotations.Keys())
	}
}

func TestEncodeRejectsInvalidText(t *testing.T) {
	g := newGroup(t)
	md := &Metadata{Description: "bad \xff\xfe text"}
	err := EncodeMetadata(g, md)
	if err == nil {
		t.Fatal("expected encoding error")
	}
	if !errors.Is(err, ErrInvalidText) {
		t.Error("kind", err)
	}
}
