package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strutframework/strutdev/internal/ci"
	"github.com/strutframework/strutdev/internal/execx"
	"github.com/strutframework/strutdev/internal/runlog"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Quick   bool   // test only the root library resource
	LogPath string // optional run-history database
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test [DIR]",
		Short: "Run test suites across workspace resources",
		Long: `Run the test suite of every discoverable resource in the workspace
(the root library plus the starters and examples), collecting pass/fail
results. One resource's failure never aborts the rest.

Exit codes:
  0 - All resources passed
  1 - One or more resources failed
  2 - Command error (invalid workspace path)

Examples:
  strutdev test
  strutdev test --quick
  strutdev test ~/src/strut --log runs.db
  strutdev test --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(opts, cmd, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.Quick, "quick", "q", false, "test only the root library")
	cmd.Flags().StringVar(&opts.LogPath, "log", "", "append results to a run-history database")

	return cmd
}

func runTest(opts *TestOptions, cmd *cobra.Command, args []string) error {
	log, err := opts.Logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		dir = args[0]
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("workspace directory not found: %s", dir))
	}

	orchestrator := &ci.Orchestrator{
		Runner: execx.NewExecRunner(),
		Log:    log,
	}
	if opts.LogPath != "" {
		history, err := runlog.Open(opts.LogPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "open run history", err)
		}
		defer history.Close()
		orchestrator.History = history
	}

	var results []ci.Result
	if opts.Quick {
		results = []ci.Result{orchestrator.Run(cmd.Context(), dir)}
	} else {
		results, err = orchestrator.AllResources(cmd.Context(), dir)
		if err != nil {
			return WrapExitError(ExitCommandError, "resource discovery failed", err)
		}
	}

	if opts.Format == "json" {
		return outputTestJSON(cmd, results)
	}

	fmt.Fprint(cmd.OutOrStdout(), ci.FormatResults(results))
	if ci.Failed(results) {
		return NewExitError(ExitFailure, "one or more resources failed")
	}
	return nil
}

func outputTestJSON(cmd *cobra.Command, results []ci.Result) error {
	response := CLIResponse{Status: "ok", Data: results}
	if ci.Failed(results) {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: "one or more resources failed",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if ci.Failed(results) {
		return NewExitError(ExitFailure, "one or more resources failed")
	}
	return nil
}
