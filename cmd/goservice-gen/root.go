package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/davidroman0O/goservice/logging"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "goservice-gen",
		Short:         "goservice-gen writes action contracts and context accessors from YAML manifests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newGenerateCmd(flags))
	cmd.AddCommand(newCheckCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newLogger(flags *rootFlags, w io.Writer) (*logging.Logger, error) {
	level := "warn"
	if flags.verbose {
		level = "debug"
	}
	return logging.New(logging.Options{Level: level, HumanReadable: true, Writer: w})
}
