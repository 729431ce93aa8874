package filestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/objname"
	"go.yaml.in/yaml/v3"
)

// Codec turns structured values into object bytes and back.
// Implementations must produce a self-describing format.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var (
	// JSON is the default codec.
	JSON Codec = jsonCodec{}

	// YAML stores objects as YAML documents.
	YAML Codec = yamlCodec{}
)

// CodecByName returns the codec registered under name ("json" or "yaml").
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return nil, errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unknown codec %q", name))
}

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type yamlCodec struct{}

func (yamlCodec) Name() string                       { return "yaml" }
func (yamlCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

// --- Structured object access ---

// ReadStructured reads the object at p and decodes it with codec.
// Storage failures keep their storage kind; decode failures are
// reported as errs.ErrKindDataFormat.
func ReadStructured[T any](ctx context.Context, s Store, p objname.Path, codec Codec) (*T, error) {
	data, err := s.ReadBytes(ctx, p)
	if err != nil {
		return nil, err
	}

	v := new(T)
	if err := codec.Unmarshal(data, v); err != nil {
		return nil, errs.Wrap(errs.ErrKindDataFormat,
			fmt.Sprintf("failed to decode %s object %q", codec.Name(), p), err)
	}
	return v, nil
}

// WriteStructured encodes v with codec and writes it to p.
func WriteStructured[T any](ctx context.Context, s Store, p objname.Path, v *T, codec Codec) error {
	data, err := codec.Marshal(v)
	if err != nil {
		return errs.Wrap(errs.ErrKindDataFormat,
			fmt.Sprintf("failed to encode %s object %q", codec.Name(), p), err)
	}
	return s.WriteBytes(ctx, p, data)
}

// ReadJSON is ReadStructured with the JSON codec.
func ReadJSON[T any](ctx context.Context, s Store, p objname.Path) (*T, error) {
	return ReadStructured[T](ctx, s, p, JSON)
}

// WriteJSON is WriteStructured with the JSON codec.
func WriteJSON[T any](ctx context.Context, s Store, p objname.Path, v *T) error {
	return WriteStructured(ctx, s, p, v, JSON)
}
