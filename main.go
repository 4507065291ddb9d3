package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pleimann/stampcam/internal/ui"
)

const Version = "0.1.0"

// rootOptions are the persistent flags shared by every command
type rootOptions struct {
	configPath string
	verbose    bool
}

// commandError carries the headline printed above a failed command's error
type commandError struct {
	context string
	err     error
}

func (e *commandError) Error() string { return e.context + ": " + e.err.Error() }
func (e *commandError) Unwrap() error { return e.err }

func fail(context string, err error) error {
	return &commandError{context: context, err: err}
}

func main() {
	if err := execute(); err != nil {
		var ce *commandError
		if errors.As(err, &ce) {
			ui.PrintFatalError(ce.context, ce.err.Error())
		} else {
			ui.PrintFatalError("Command failed", err.Error())
		}
		os.Exit(1)
	}
}

func execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "stampcam",
		Short:         "Timestamp watermark camera",
		Long:          ui.Banner(Version),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(ui.VersionTemplate(Version))
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to configuration file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newPreviewCmd(opts))
	root.AddCommand(newCaptureCmd(opts))
	root.AddCommand(newCornerCmd(opts))
	root.AddCommand(newInitCmd(opts))

	return root
}
