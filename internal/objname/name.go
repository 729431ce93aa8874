// Package objname provides validated, storage-relative object names.
//
// A Name is a single path component that is safe to join under any storage
// root: it never contains a separator, a control character, or a relative
// reference. Names are immutable values and may be shared freely between
// goroutines; String returns a view of the validated text without copying.
package objname

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/koustreak/blobidx/internal/errs"
)

// Name is a validated object name.
// The zero value is not a valid name; use New.
type Name struct {
	s string
}

// New validates raw and returns it as a Name.
//
// Empty names and names containing '/', '\\' or a control character are
// rejected, as is invalid UTF-8. "." and ".." are rejected too, although
// they contain no separator: joined under a collection they would address
// the collection itself or its parent.
func New(raw string) (Name, error) {
	if err := validate(raw); err != nil {
		return Name{}, err
	}
	return Name{s: raw}, nil
}

// MustNew is like New but panics on an invalid name.
// Intended for literals in tests and examples.
func MustNew(raw string) Name {
	n, err := New(raw)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the name exactly as it was validated.
func (n Name) String() string {
	return n.s
}

// IsZero reports whether n is the zero Name.
func (n Name) IsZero() bool {
	return n.s == ""
}

// Path returns a single-component path holding n.
func (n Name) Path() Path {
	return Path{parts: []Name{n}}
}

// MarshalText renders n for encoding/json and friends.
func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.s), nil
}

// UnmarshalText validates text before accepting it.
func (n *Name) UnmarshalText(text []byte) error {
	v, err := New(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// Less orders names lexically by their string form.
func Less(a, b Name) bool {
	return a.s < b.s
}

// Compare orders names lexically, for slices.SortFunc.
func Compare(a, b Name) int {
	return strings.Compare(a.s, b.s)
}

func validate(raw string) error {
	switch raw {
	case "":
		return errs.New(errs.ErrKindInvalidName, "object name is empty")
	case ".", "..":
		return errs.Newf(errs.ErrKindInvalidName, "object name %q is a relative reference", raw)
	}
	if !utf8.ValidString(raw) {
		return errs.Newf(errs.ErrKindInvalidName, "object name %q is not valid UTF-8", raw)
	}
	for _, r := range raw {
		if r == '/' || r == '\\' {
			return errs.Newf(errs.ErrKindInvalidName, "object name %q contains a path separator", raw)
		}
		if unicode.IsControl(r) {
			return errs.Newf(errs.ErrKindInvalidName, "object name %q contains a control character", raw)
		}
	}
	return nil
}
