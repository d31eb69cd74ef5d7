package dotthz

// Annotations is an insertion-ordered mapping of free-form annotation keys
// to text values.  Order matters: the Nth key names the positional "mdN"
// attribute in the container.  The zero value is ready to use.
type Annotations struct {
	keys   []string
	values map[string]string
}

// Set inserts or overwrites an annotation.  Overwriting keeps the key's
// original position.
func (a *Annotations) Set(key, value string) {
	if a.values == nil {
		a.values = map[string]string{}
	}
	if _, has := a.values[key]; !has {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the value for key.
func (a *Annotations) Get(key string) (string, bool) {
	v, has := a.values[key]
	return v, has
}

// Keys returns the annotation keys in insertion order.  The slice is a copy.
func (a *Annotations) Keys() []string {
	keys := make([]string, len(a.keys))
	copy(keys, a.keys)
	return keys
}

// Len returns the number of annotations.
func (a *Annotations) Len() int {
	return len(a.keys)
}

// Metadata describes one measurement group.  All text fields default to
// empty; absent attributes decode to the zero value.
type Metadata struct {
	// Identity of whoever took the measurement.  Stored as a single
	// composite attribute "orcid/user/email/institution"; a slash inside
	// one of the subfields corrupts the positional split on read.  The
	// convention does not escape it.
	User        string
	Email       string
	ORCID       string
	Institution string

	// Description of the measurement.
	Description string

	// Annotations holds additional key/value metadata ("mdN" attributes).
	Annotations Annotations

	// DatasetDescriptions labels the stored datasets positionally: the
	// Nth label describes dataset "dsN".
	DatasetDescriptions []string

	// Version is the convention version ("thzVer" attribute).
	Version string

	// Mode of the measurement.
	Mode string

	// Instrument used for the measurement.
	Instrument string

	// Time of the measurement.
	Time string

	// Date of the measurement.
	Date string
}
