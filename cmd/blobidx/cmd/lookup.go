package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/koustreak/blobidx/internal/objname"
)

func newLookupCmd(root *rootOptions) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "lookup <collection> <key>",
		Short: "Print the objects filed under a key",
		Long: `Build an index over a collection and print, one per line, the names of
the objects whose key equals the given key. Prints nothing for an unknown key.

Examples:
  blobidx lookup reports 9 --by length
  blobidx lookup . ana --by field:owner`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := root.buildIndex(cmd.Context(), args[0], by)
			if err != nil {
				return err
			}
			names, err := table.Get(args[1])
			if err != nil {
				return err
			}
			slices.SortFunc(names, objname.Compare)
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "name", byUsage)
	return cmd
}
