package dotthz

import "strings"

// Descriptor attributes ("mdDescription", "dsDescription") associate an
// ordered label list with a positional attribute or dataset family.  Two
// physical encodings exist in the wild: older containers stored one entry
// per label, newer ones store a single entry with all labels joined by
// ", ".  Writers always emit the joined form; readers accept both.

const listSeparator = ", "

// packList joins labels into the single-entry descriptor encoding.
func packList(labels []string) string {
	return strings.Join(labels, listSeparator)
}

// unpackList recovers the ordered label list from a stored descriptor.
// A single stored entry is split on the separator; multiple entries are
// treated as already split.  A single empty entry is the packed form of
// the empty list.
func unpackList(stored []string) []string {
	if len(stored) != 1 {
		return stored
	}
	if stored[0] == "" {
		return nil
	}
	return strings.Split(stored[0], listSeparator)
}
