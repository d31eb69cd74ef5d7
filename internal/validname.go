package internal

import (
	"regexp"
)

const (
	// A valid object name (group, dataset or attribute) must start with a
	// letter, digit or underscore.  It may contain any character after that
	// except control characters and slash; slash is reserved for paths in
	// the hierarchical store and for the identity composite delimiter.
	pattern = `^[\pL\pN_][^\pC/]*$`
	// It may not end with a whitespace character.
	antiPattern = `\pZ$`
)

var (
	re     *regexp.Regexp
	antiRe *regexp.Regexp
)

func init() {
	var err error
	re, err = regexp.Compile(pattern)
	if err != nil {
		panic(err)
	}
	antiRe, err = regexp.Compile(antiPattern)
	if err != nil {
		panic(err)
	}
}

// IsValidObjectName returns true if name can be used for a group, dataset
// or attribute.
func IsValidObjectName(name string) bool {
	return re.MatchString(name) && !antiRe.MatchString(name)
}
