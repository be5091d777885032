package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strutframework/strutdev/internal/workspace"
)

// BumpVersionOptions holds flags for the bump-version command.
type BumpVersionOptions struct {
	*RootOptions
	ExcludeStarters bool
	Yes             bool
}

// BumpVersionResult is the bump-version payload.
type BumpVersionResult struct {
	Package string `json:"package"`
	From    string `json:"from"`
	To      string `json:"to"`
	Skipped bool   `json:"skipped"`
}

func (r BumpVersionResult) String() string {
	if r.Skipped {
		return "aborted, nothing changed"
	}
	return fmt.Sprintf("workspace now at %s", r.To)
}

// NewBumpVersionCommand creates the bump-version command.
func NewBumpVersionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BumpVersionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bump-version VERSION",
		Short: "Propagate a new framework version across the workspace",
		Long: `Rewrite every dependency constraint on the framework across all
workspace member manifests to VERSION, plus the root package version.

This rewrites manifest files across the whole tree and is hard to undo;
it asks for confirmation first. Declining is a no-op, not an error.

Examples:
  strutdev bump-version 0.9.0
  strutdev bump-version 0.9.0 --exclude-starters
  strutdev bump-version 0.9.0 --yes`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBumpVersion(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.ExcludeStarters, "exclude-starters", false, "leave starter package manifests untouched")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func runBumpVersion(opts *BumpVersionOptions, cmd *cobra.Command, version string) error {
	log, err := opts.Logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	if !workspace.ValidVersion(version) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid version %q: expected a bare semantic version like 1.2.3", version))
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	ws, err := workspace.Load(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "load workspace", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	result := BumpVersionResult{
		Package: ws.Root.Name,
		From:    ws.Root.Version,
		To:      version,
	}

	if !opts.Yes {
		message := fmt.Sprintf("upgrading %s version from %s to %s",
			ws.Root.Name, ws.Root.Version, version)
		confirmed, err := workspace.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), message)
		if err != nil {
			return err
		}
		if !confirmed {
			// Declined confirmation is a successful no-op.
			result.Skipped = true
			return formatter.Success(result)
		}
	}

	bump := &workspace.Bump{
		Version:         version,
		ExcludeStarters: opts.ExcludeStarters,
		Log:             log,
	}
	if err := bump.Run(ws); err != nil {
		return WrapExitError(ExitFailure, "version propagation failed", err)
	}

	return formatter.Success(result)
}
