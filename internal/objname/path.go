package objname

import "strings"

// Separator joins path components in Path.String.
const Separator = "/"

// Path addresses an object or a collection below a storage root as a
// sequence of validated names. The zero Path is the root.
type Path struct {
	parts []Name
}

// Root returns the empty path, i.e. the storage root itself.
func Root() Path {
	return Path{}
}

// ParsePath splits s on "/" and validates every component.
// An empty string yields Root.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Root(), nil
	}
	raw := strings.Split(s, Separator)
	parts := make([]Name, 0, len(raw))
	for _, r := range raw {
		n, err := New(r)
		if err != nil {
			return Path{}, err
		}
		parts = append(parts, n)
	}
	return Path{parts: parts}, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// IsRoot reports whether p has no components.
func (p Path) IsRoot() bool {
	return len(p.parts) == 0
}

// Len returns the number of components.
func (p Path) Len() int {
	return len(p.parts)
}

// Names returns a copy of the components.
func (p Path) Names() []Name {
	out := make([]Name, len(p.parts))
	copy(out, p.parts)
	return out
}

// Child returns p extended by n. p itself is left untouched.
func (p Path) Child(n Name) Path {
	parts := make([]Name, len(p.parts), len(p.parts)+1)
	copy(parts, p.parts)
	return Path{parts: append(parts, n)}
}

// Join returns p followed by every component of q.
func (p Path) Join(q Path) Path {
	parts := make([]Name, 0, len(p.parts)+len(q.parts))
	parts = append(parts, p.parts...)
	return Path{parts: append(parts, q.parts...)}
}

// Base returns the last component, or the zero Name for the root.
func (p Path) Base() Name {
	if p.IsRoot() {
		return Name{}
	}
	return p.parts[len(p.parts)-1]
}

// Dir returns p without its last component. The root's Dir is the root.
func (p Path) Dir() Path {
	if len(p.parts) <= 1 {
		return Root()
	}
	return Path{parts: p.parts[:len(p.parts)-1]}
}

// String joins the components with Separator. The root renders as "".
func (p Path) String() string {
	switch len(p.parts) {
	case 0:
		return ""
	case 1:
		return p.parts[0].s
	}
	var b strings.Builder
	for i, n := range p.parts {
		if i > 0 {
			b.WriteString(Separator)
		}
		b.WriteString(n.s)
	}
	return b.String()
}
