// Package sqlblob holds the pieces shared by the SQL-backed stores.
//
// Both the postgres and mysql backends keep objects in one table:
//
//	dir   text   -- collection path, "" for the root
//	name  text   -- object name inside dir
//	data  blob
//	PRIMARY KEY (dir, name)
//
// Collections are implicit: a collection exists as long as some object has
// it (or a descendant) as dir. Shared here so the drivers don't duplicate it.
package sqlblob

import (
	"fmt"
	"regexp"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/objname"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidateTable rejects table names that would need quoting. Table names
// come from configuration and are interpolated into SQL text.
func ValidateTable(table string) error {
	if !tableNameRe.MatchString(table) {
		return errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("invalid blob table name %q", table))
	}
	return nil
}

// Key splits an object path into its (dir, name) row key.
func Key(p objname.Path) (dir, name string, err error) {
	if p.IsRoot() {
		return "", "", errs.New(errs.ErrKindInvalidInput, "the storage root is not an object")
	}
	return p.Dir().String(), p.Base().String(), nil
}

// ChildPrefix returns the prefix shared by the dir column of every row
// nested below dir: "" for the root, otherwise dir followed by "/".
func ChildPrefix(dir objname.Path) string {
	if dir.IsRoot() {
		return ""
	}
	return dir.String() + objname.Separator
}

// Merge combines direct object names and sub-collection names into one
// listing without duplicates, preserving first-seen order.
func Merge(objects, collections []string) []string {
	seen := make(map[string]struct{}, len(objects)+len(collections))
	out := make([]string, 0, len(objects)+len(collections))
	for _, group := range [][]string{objects, collections} {
		for _, n := range group {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}
