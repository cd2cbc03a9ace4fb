// Package cmd provides the command line of textualize
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/relex/gotils/logger"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

// ErrUsage is returned when the command line doesn't have the required arguments
var ErrUsage = errors.New("usage error")

// Execute parses the command line and runs the specified command
//
// The function finishes the program and DOES NOT return
func Execute() {
	if err := execute(os.Args[1:], nil); err != nil {
		logger.Fatal(err)
	}
	logger.Exit(0)
}

// execute runs the command tree on args and returns the first error
func execute(args []string, stdout io.Writer) error {
	state := &rootCommandState{}
	rootCmd := newRootCommand(state)
	subCommands := []*cobra.Command{
		newRestoreCommand(state),
		newHeaderCommand(state),
		newBatchCommand(state),
	}
	if !isInputFileShadowed(args, subCommands) {
		rootCmd.AddCommand(subCommands...)
	}
	rootCmd.SetArgs(args)
	if stdout != nil {
		rootCmd.SetOut(stdout)
	}

	err := rootCmd.Execute()
	if ferr := state.finish(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

// requireArgs returns a cobra.PositionalArgs checking for at least n arguments
//
// Args are validated by cobra before any pre-run, so a usage error never touches the filesystem
func requireArgs(n int, names string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return fmt.Errorf("%w: %s requires %s, got %d argument(s)", ErrUsage, cmd.Name(), names, len(args))
		}
		return nil
	}
}

// isInputFileShadowed checks whether the first of at least two positional args names both a sub-command and an
// existing regular file, e.g. "textualize header out.txt" with a file named "header" in the working directory.
//
// The root conversion takes precedence in that case.
func isInputFileShadowed(args []string, subCommands []*cobra.Command) bool {
	scan := newRootCommand(&rootCommandState{})
	scan.FParseErrWhitelist.UnknownFlags = true
	if err := scan.ParseFlags(args); err != nil {
		return false
	}
	positionalArgs := scan.Flags().Args()
	if len(positionalArgs) < 2 {
		return false
	}

	names := []string{"help"}
	for _, c := range subCommands {
		names = append(names, c.Name())
		names = append(names, c.Aliases...)
	}
	if !slices.Contains(names, positionalArgs[0]) {
		return false
	}

	stat, err := os.Stat(positionalArgs[0])
	return err == nil && stat.Mode().IsRegular()
}
