// Package cmd provides the CLI commands for blobidx.
package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koustreak/blobidx/internal/config"
	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/filestore/open"
	"github.com/koustreak/blobidx/internal/index"
	"github.com/koustreak/blobidx/internal/logger"
	"github.com/koustreak/blobidx/internal/objname"
)

// rootOptions holds the persistent flags and the state derived from them.
type rootOptions struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *logger.Logger
}

// NewRootCmd creates the root command for the blobidx CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "blobidx",
		Short: "Index and search objects in a blob store",
		Long: `blobidx scans a collection of a blob store (local directory, MinIO
bucket, Postgres or MySQL table), derives keys from every object with a
keymap and answers exact lookups and ranked searches over the result.

The store is configured with --config or BLOBIDX_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
	}
	cmd.SetVersionTemplate("blobidx version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	cmd.AddCommand(newIndexCmd(opts))
	cmd.AddCommand(newLookupCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	o.cfg = cfg
	o.log = logger.New(&cfg.Log)
	logger.SetGlobal(o.log)
	return nil
}

// openStore connects to the configured store and pings it.
func (o *rootOptions) openStore(ctx context.Context) (filestore.Store, error) {
	s, err := open.Store(ctx, &o.cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := s.Ping(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// buildIndex opens the store and indexes the collection named by dir.
func (o *rootOptions) buildIndex(ctx context.Context, dir, by string) (*index.HashTable[string], error) {
	start, err := parseStart(dir)
	if err != nil {
		return nil, err
	}
	codec, err := filestore.CodecByName(o.cfg.Index.Codec)
	if err != nil {
		return nil, err
	}

	s, err := o.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return buildBy(ctx, s, start, by, codec,
		index.WithLogger(o.log),
		index.WithChannelCapacity(o.cfg.Index.ChannelCapacity))
}

// parseStart maps a CLI collection argument to a path. "", "." and "/"
// name the store root.
func parseStart(dir string) (objname.Path, error) {
	dir = strings.Trim(dir, objname.Separator)
	if dir == "" || dir == "." {
		return objname.Root(), nil
	}
	p, err := objname.ParsePath(dir)
	if err != nil {
		return objname.Path{}, errs.Wrap(errs.ErrKindInvalidInput, "invalid collection "+dir, err)
	}
	return p, nil
}
