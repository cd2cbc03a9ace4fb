package cmd

import (
	"github.com/spf13/cobra"
)

func newBatchCommand(root *rootCommandState) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <dir_or_pattern> <output_dir>",
		Short: "Convert every file matching batch.include in a directory or glob pattern into output_dir",
		Args:  requireArgs(2, "<dir_or_pattern> <output_dir>"),
		RunE: func(_ *cobra.Command, args []string) error {
			_, err := root.runner.ConvertBatch(args[0], args[1])
			return err
		},
	}
}
