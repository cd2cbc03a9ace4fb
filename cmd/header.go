package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHeaderCommand(root *rootCommandState) *cobra.Command {
	return &cobra.Command{
		Use:   "header <input_path>",
		Short: "Print the dimensions in the header of a .bin image and the size of its body",
		Args:  requireArgs(1, "<input_path>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			header, bodySize, err := root.runner.ReadHeader(args[0])
			if err != nil {
				return err
			}
			if header.Complete() {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s pixels=%d body=%d\n", header, header.Pixels(), bodySize)
			} else {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s body=%d\n", header, bodySize)
			}
			return err
		},
	}
}
