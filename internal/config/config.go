// Package config loads the blobidx YAML configuration file.
//
// Example file:
//
//	log:
//	  level: debug
//	  format: console
//	store:
//	  provider: minio
//	  endpoint: localhost:9000
//	  access_key: minioadmin
//	  secret_key: minioadmin
//	  bucket: documents
//	  cache_size: 4096
//	server:
//	  addr: ":8080"
//
// Environment variables override the file: BLOBIDX_LOG_LEVEL,
// BLOBIDX_STORE_PROVIDER, BLOBIDX_STORE_ROOT, BLOBIDX_STORE_DSN,
// BLOBIDX_STORE_ACCESS_KEY, BLOBIDX_STORE_SECRET_KEY, BLOBIDX_SERVER_ADDR.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/logger"
	"go.yaml.in/yaml/v3"
)

// Config is the root of the configuration file.
type Config struct {
	Log    logger.Config    `yaml:"log"`
	Store  filestore.Config `yaml:"store"`
	Index  IndexConfig      `yaml:"index"`
	Server ServerConfig     `yaml:"server"`
}

// IndexConfig tunes index builds.
type IndexConfig struct {
	// ChannelCapacity bounds in-flight keymap results. 0 keeps the default.
	ChannelCapacity int `yaml:"channel_capacity"`

	// Codec is the structured format of stored objects: json or yaml.
	Codec string `yaml:"codec"`
}

// ServerConfig configures the HTTP query surface.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	DefaultLimit    int           `yaml:"default_limit"`
}

// Default returns a config for indexing the current directory.
func Default() *Config {
	return &Config{
		Log: logger.Config{
			Level:      "info",
			Format:     "json",
			TimeFormat: "rfc3339",
		},
		Store: *filestore.DefaultFSConfig("."),
		Index: IndexConfig{Codec: "json"},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			DefaultLimit:    20,
		},
	}
}

// Load reads path on top of Default and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to read config file "+path, err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode merges YAML onto c; fields absent from data keep their values.
// Unknown fields are rejected so typos do not pass silently.
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return errs.Wrap(errs.ErrKindDataFormat, "invalid config file", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		env string
		dst *string
	}{
		{"BLOBIDX_LOG_LEVEL", &c.Log.Level},
		{"BLOBIDX_STORE_PROVIDER", (*string)(&c.Store.Provider)},
		{"BLOBIDX_STORE_ROOT", &c.Store.Root},
		{"BLOBIDX_STORE_DSN", &c.Store.DSN},
		{"BLOBIDX_STORE_ACCESS_KEY", &c.Store.AccessKey},
		{"BLOBIDX_STORE_SECRET_KEY", &c.Store.SecretKey},
		{"BLOBIDX_SERVER_ADDR", &c.Server.Addr},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if _, err := filestore.CodecByName(c.Index.Codec); err != nil {
		return err
	}
	if c.Index.ChannelCapacity < 0 {
		return errs.New(errs.ErrKindInvalidInput, "index.channel_capacity must not be negative")
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unknown log format %q", c.Log.Format))
	}
	if c.Server.DefaultLimit < 0 {
		return errs.New(errs.ErrKindInvalidInput, "server.default_limit must not be negative")
	}
	return nil
}

// WriteYAML writes c to path, e.g. to bootstrap a config file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errs.Wrap(errs.ErrKindDataFormat, "failed to encode config", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errs.Wrap(errs.ErrKindIOFailed, "failed to write config file "+path, err)
	}
	return nil
}
