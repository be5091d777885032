// Package cli wires the strutdev commands: artifact generation,
// workspace testing, version propagation and fuzzy scenario runs.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Logger builds the process logger according to the verbosity flag.
func (o *RootOptions) Logger() (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if o.Verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}

// NewRootCommand creates the root command for the strutdev CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "strutdev",
		Short: "Developer tooling for the strut framework",
		Long:  "strutdev drives the strut framework's build lifecycle: model generation, workspace-wide testing, version propagation and randomized end-to-end scenarios.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewBumpVersionCommand(opts))
	cmd.AddCommand(NewFuzzyCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
