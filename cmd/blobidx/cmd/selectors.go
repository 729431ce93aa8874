package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/index"
	"github.com/koustreak/blobidx/internal/keymap"
	"github.com/koustreak/blobidx/internal/objname"
	"github.com/koustreak/blobidx/internal/search"
)

const byUsage = "Keymap: name, length, tokens or field:<name>"

// buildBy runs the keymap selected by the --by flag. Every keymap is
// rendered to string keys so one table type serves every command.
func buildBy(ctx context.Context, s filestore.Store, start objname.Path, by string, codec filestore.Codec, opts ...index.Option) (*index.HashTable[string], error) {
	switch {
	case by == "name":
		return index.Index(ctx, s, start, keymap.ByName, opts...)
	case by == "length":
		return index.Index(ctx, s, start, func(ctx context.Context, s filestore.Store, n objname.Name) (string, error) {
			l, err := keymap.ByNameLength(ctx, s, n)
			return strconv.Itoa(l), err
		}, opts...)
	case by == "tokens":
		return index.MultiIndex(ctx, s, start, keymap.NameTokens, opts...)
	case strings.HasPrefix(by, "field:"):
		field := strings.TrimPrefix(by, "field:")
		if field == "" {
			return nil, errs.New(errs.ErrKindInvalidInput, "field keymap needs a field name")
		}
		return index.Index(ctx, s, start, keymap.Field(codec, field), opts...)
	}
	return nil, errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unknown keymap %q", by))
}

// scoreBy returns the scorer selected by the --score flag.
func scoreBy(name string) (search.ScoreFunc[string, string], error) {
	switch name {
	case "proximity":
		return keymap.TextProximity, nil
	case "overlap":
		return keymap.TokenOverlap, nil
	case "prefix":
		return keymap.PrefixScore, nil
	}
	return nil, errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unknown score %q", name))
}
