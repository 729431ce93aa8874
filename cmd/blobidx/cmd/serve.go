package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/koustreak/blobidx/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		by    string
		score string
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve <collection>",
		Short: "Build an index and serve it over HTTP",
		Long: `Build an index over a collection once and serve read-only lookups,
ranked searches and prometheus metrics until interrupted.

Examples:
  blobidx serve . --by tokens --score overlap --addr :8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scoreFn, err := scoreBy(score)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			table, err := root.buildIndex(ctx, args[0], by)
			if err != nil {
				return err
			}

			sc := root.cfg.Server
			if addr != "" {
				sc.Addr = addr
			}
			srv := server.New(table, scoreFn, server.Config{
				Addr:            sc.Addr,
				ReadTimeout:     sc.ReadTimeout,
				WriteTimeout:    sc.WriteTimeout,
				ShutdownTimeout: sc.ShutdownTimeout,
				DefaultLimit:    sc.DefaultLimit,
				Logger:          root.log,
			})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.ListenAndServe(gctx)
			})
			g.Go(func() error {
				<-gctx.Done()
				if ctx.Err() != nil {
					root.log.Info("interrupted, stopping server")
				}
				return nil
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&by, "by", "name", byUsage)
	cmd.Flags().StringVar(&score, "score", "prefix", "Scorer: proximity, overlap or prefix")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
