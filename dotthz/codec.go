package dotthz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dotthz/go-dotthz/dotthz/api"
)

// Attribute names the convention uses on every group.
const (
	attrDescription   = "description"
	attrDate          = "date"
	attrInstrument    = "instrument"
	attrMode          = "mode"
	attrTime          = "time"
	attrVersion       = "thzVer"
	attrUser          = "user"
	attrMDDescription = "mdDescription"
	attrDSDescription = "dsDescription"
)

// mdAttr returns the positional annotation attribute name for the
// 1-indexed position i.
func mdAttr(i int) string {
	return fmt.Sprintf("md%d", i)
}

// DatasetName returns the positional dataset name for the 1-indexed
// position i ("ds1", "ds2", ...).
func DatasetName(i int) string {
	return fmt.Sprintf("ds%d", i)
}

// EncodeMetadata writes md to the group's attributes, overwriting every
// attribute slot the convention owns.  The write sequence is not
// transactional: a mid-sequence failure leaves earlier attributes written
// and later ones absent.  Callers needing atomicity should write to a
// temporary path and rename.
func EncodeMetadata(g api.Group, md *Metadata) error {
	scalars := []struct {
		name  string
		value string
	}{
		{attrDescription, md.Description},
		{attrDate, md.Date},
		{attrInstrument, md.Instrument},
		{attrMode, md.Mode},
		{attrVersion, md.Version},
		{attrTime, md.Time},
	}
	for _, s := range scalars {
		if err := g.SetAttribute(s.name, s.value); err != nil {
			return fmt.Errorf("writing %q: %w", s.name, err)
		}
	}

	if err := g.SetAttribute(attrUser, md.composite()); err != nil {
		return fmt.Errorf("writing %q: %w", attrUser, err)
	}

	keys := md.Annotations.Keys()
	if err := g.SetAttribute(attrMDDescription, []string{packList(keys)}); err != nil {
		return fmt.Errorf("writing %q: %w", attrMDDescription, err)
	}
	for i, key := range keys {
		value, _ := md.Annotations.Get(key)
		name := mdAttr(i + 1)
		var err error
		if f, perr := strconv.ParseFloat(value, 32); perr == nil {
			err = g.SetAttribute(name, float32(f))
		} else {
			err = g.SetAttribute(name, value)
		}
		if err != nil {
			return fmt.Errorf("writing %q: %w", name, err)
		}
	}

	packed := packList(md.DatasetDescriptions)
	if err := g.SetAttribute(attrDSDescription, []string{packed}); err != nil {
		return fmt.Errorf("writing %q: %w", attrDSDescription, err)
	}
	return nil
}

// DecodeMetadata reconstructs a Metadata record from the group's
// attributes.  Decoding is best-effort: absent attributes leave the
// corresponding field at its default and are never an error, and
// annotation keys whose positional attribute cannot be read are silently
// omitted.
func DecodeMetadata(g api.Group) *Metadata {
	md := &Metadata{}
	attrs := g.Attributes()

	md.Instrument = textAttr(attrs, attrInstrument)
	md.Mode = textAttr(attrs, attrMode)
	md.Version = textAttr(attrs, attrVersion)
	md.Description = textAttr(attrs, attrDescription)
	md.Time = textAttr(attrs, attrTime)
	md.Date = textAttr(attrs, attrDate)

	md.DatasetDescriptions = unpackList(listAttr(attrs, attrDSDescription))

	for i, key := range unpackList(listAttr(attrs, attrMDDescription)) {
		name := mdAttr(i + 1)
		if f, ok := floatAttr(attrs, name); ok {
			md.Annotations.Set(key, strconv.FormatFloat(float64(f), 'g', -1, 32))
			continue
		}
		if s, ok := lookupText(attrs, name); ok {
			md.Annotations.Set(key, s)
		}
	}

	if composite, ok := lookupText(attrs, attrUser); ok {
		md.splitComposite(composite)
	}
	return md
}

// composite joins the identity quartet into the stored "user" attribute
// value.  The order is fixed:  orcid/user/email/institution.
func (md *Metadata) composite() string {
	return strings.Join([]string{md.ORCID, md.User, md.Email, md.Institution}, "/")
}

// splitComposite is the positional inverse of composite.  Fewer than four
// parts leave the trailing fields at their defaults; parts are trimmed.
func (md *Metadata) splitComposite(composite string) {
	parts := strings.Split(composite, "/")
	fields := []*string{&md.ORCID, &md.User, &md.Email, &md.Institution}
	for i, f := range fields {
		if i < len(parts) {
			*f = strings.TrimSpace(parts[i])
		}
	}
}

// lookupText reads an attribute as text.  Multi-entry text attributes
// yield their first entry, matching how scalar text was historically
// written as a one-element array.
func lookupText(attrs api.AttributeMap, name string) (string, bool) {
	v, has := attrs.Get(name)
	if !has {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case []string:
		if len(t) == 0 {
			return "", false
		}
		return t[0], true
	}
	return "", false
}

// textAttr is lookupText with the absent-defaults-to-empty rule.
func textAttr(attrs api.AttributeMap, name string) string {
	s, _ := lookupText(attrs, name)
	return s
}

// listAttr reads a descriptor attribute as its stored entry list, whatever
// its physical shape.
func listAttr(attrs api.AttributeMap, name string) []string {
	v, has := attrs.Get(name)
	if !has {
		return nil
	}
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	}
	return nil
}

// floatAttr reads an attribute as a numeric scalar.
func floatAttr(attrs api.AttributeMap, name string) (float32, bool) {
	v, has := attrs.Get(name)
	if !has {
		return 0, false
	}
	f, ok := v.(float32)
	return f, ok
}
