package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koustreak/blobidx/internal/search"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	by     string
	score  string
	limit  int
	format string
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <collection> <query>",
		Short: "Rank every object of a collection against a query",
		Long: `Build an index over a collection, score every key against the query and
print the objects best first.

Examples:
  blobidx search . "sales report" --by tokens --score overlap
  blobidx search data 18 --by field:age --score proximity --limit 5`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := scoreBy(opts.score)
			if err != nil {
				return err
			}
			table, err := root.buildIndex(cmd.Context(), args[0], opts.by)
			if err != nil {
				return err
			}

			hits, err := search.FindBestMatch[string, string](table, score, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			hits = search.Top(hits, opts.limit)

			out := cmd.OutOrStdout()
			if opts.format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(hits)
			}
			for _, h := range hits {
				fmt.Fprintf(out, "%.4f\t%s\n", h.Score, h.Item)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.by, "by", "name", byUsage)
	cmd.Flags().StringVar(&opts.score, "score", "prefix", "Scorer: proximity, overlap or prefix")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Maximum number of results (0 = unlimited)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	return cmd
}
