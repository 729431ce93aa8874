// Package keymap provides ready-made keymaps for index.Index and
// index.MultiIndex, and scoring functions for search.FindBestMatch.
package keymap

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/objname"
)

// ByName keys each object by its own name.
func ByName(_ context.Context, _ filestore.Store, name objname.Name) (string, error) {
	return name.String(), nil
}

// ByNameLength keys each object by the rune count of its name.
func ByNameLength(_ context.Context, _ filestore.Store, name objname.Name) (int, error) {
	return utf8.RuneCountInString(name.String()), nil
}

// NameTokens splits a name into lower-cased words on '.', '_', '-' and
// whitespace. Empty tokens are dropped.
func NameTokens(_ context.Context, _ filestore.Store, name objname.Name) ([]string, error) {
	return Tokenize(name.String()), nil
}

// Tokenize is the splitting rule behind NameTokens and TokenOverlap.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || unicode.IsSpace(r)
	})
	out := fields[:0]
	for _, f := range fields {
		out = append(out, strings.ToLower(f))
	}
	return out
}

// Field returns a keymap that decodes each object with codec and keys it
// by the top-level field, rendered as a string. A missing field fails the
// keymap, and with it the build.
func Field(codec filestore.Codec, field string) func(context.Context, filestore.Store, objname.Name) (string, error) {
	return func(ctx context.Context, s filestore.Store, name objname.Name) (string, error) {
		v, err := readField(ctx, s, name, codec, field)
		if err != nil {
			return "", err
		}
		switch t := v.(type) {
		case string:
			return t, nil
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64), nil
		default:
			return fmt.Sprint(t), nil
		}
	}
}

// Number is like Field but requires a numeric field.
func Number(codec filestore.Codec, field string) func(context.Context, filestore.Store, objname.Name) (float64, error) {
	return func(ctx context.Context, s filestore.Store, name objname.Name) (float64, error) {
		v, err := readField(ctx, s, name, codec, field)
		if err != nil {
			return 0, err
		}
		switch t := v.(type) {
		case float64:
			return t, nil
		case int:
			return float64(t), nil
		case int64:
			return float64(t), nil
		case uint64:
			return float64(t), nil
		}
		return 0, errs.New(errs.ErrKindDataFormat,
			fmt.Sprintf("field %q of %q is %T, not a number", field, name, v))
	}
}

// JSONField is Field with the JSON codec.
func JSONField(field string) func(context.Context, filestore.Store, objname.Name) (string, error) {
	return Field(filestore.JSON, field)
}

// JSONNumber is Number with the JSON codec.
func JSONNumber(field string) func(context.Context, filestore.Store, objname.Name) (float64, error) {
	return Number(filestore.JSON, field)
}

func readField(ctx context.Context, s filestore.Store, name objname.Name, codec filestore.Codec, field string) (any, error) {
	doc, err := filestore.ReadStructured[map[string]any](ctx, s, name.Path(), codec)
	if err != nil {
		return nil, err
	}
	v, ok := (*doc)[field]
	if !ok {
		return nil, errs.New(errs.ErrKindDataFormat,
			fmt.Sprintf("object %q has no field %q", name, field))
	}
	return v, nil
}
