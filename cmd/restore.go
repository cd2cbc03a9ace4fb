package cmd

import (
	"fmt"

	"github.com/relex/gotils/config"
	"github.com/relex/gotils/logger"
	"github.com/relex/textualize/convert"
	"github.com/spf13/cobra"
)

type restoreCommandState struct {
	Width      uint32 `help:"Image width written to the header"`
	Height     uint32 `help:"Image height written to the header"`
	HeaderFrom string `name:"header-from" help:"Copy the header from this .bin image instead of --width and --height"`
}

func newRestoreCommand(root *rootCommandState) *cobra.Command {
	state := &restoreCommandState{}
	cmd := &cobra.Command{
		Use:   "restore <text_path> <output_path>",
		Short: "Restore a .bin image from binary text, with the header given by dimensions or copied from another image",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := requireArgs(2, "<text_path> <output_path>")(cmd, args); err != nil {
				return err
			}
			return state.verifyHeaderFlags(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			header := convert.NewHeader(state.Width, state.Height)
			if state.HeaderFrom != "" {
				source, _, err := root.runner.ReadHeader(state.HeaderFrom)
				if err != nil {
					return err
				}
				if !source.Complete() {
					return fmt.Errorf("%s: %s", state.HeaderFrom, source)
				}
				header = source
			}
			_, err := root.runner.Restore(args[0], args[1], header)
			return err
		},
	}
	config.AddStructFlagsToFlags(logger.WithField("cmd", "restore"), cmd.Flags(), state)
	cmd.MarkFlagsRequiredTogether("width", "height")
	cmd.MarkFlagsMutuallyExclusive("header-from", "width")
	cmd.MarkFlagsMutuallyExclusive("header-from", "height")
	return cmd
}

// verifyHeaderFlags requires either both dimensions or --header-from
func (state *restoreCommandState) verifyHeaderFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if state.HeaderFrom != "" || (flags.Changed("width") && flags.Changed("height")) {
		return nil
	}
	return fmt.Errorf("%w: %s requires --width and --height, or --header-from", ErrUsage, cmd.Name())
}
