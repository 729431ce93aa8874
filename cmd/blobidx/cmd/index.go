package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newIndexCmd(root *rootOptions) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "index <collection>",
		Short: "Build an index and print its buckets as JSON",
		Long: `Build an index over every object directly under a collection and print
it as a JSON object mapping each key to the names filed under it.

Examples:
  blobidx index reports --by length
  blobidx index . --by field:owner -c blobidx.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := root.buildIndex(cmd.Context(), args[0], by)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(table)
		},
	}

	cmd.Flags().StringVar(&by, "by", "name", byUsage)
	return cmd
}
