package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strutframework/strutdev/internal/execx"
	"github.com/strutframework/strutdev/internal/fuzzy"
	"github.com/strutframework/strutdev/internal/runlog"
)

// FuzzyOptions holds flags for the fuzzy command.
type FuzzyOptions struct {
	*RootOptions
	Seed    uint64
	Scratch string
	LogPath string
}

// FuzzyResult is the fuzzy scenario payload.
type FuzzyResult struct {
	Scenario string `json:"scenario"`
	Seed     uint64 `json:"seed"`
	Pass     bool   `json:"pass"`
}

func (r FuzzyResult) String() string {
	return fmt.Sprintf("scenario %s passed (seed %d)", r.Scenario, r.Seed)
}

// NewFuzzyCommand creates the fuzzy command with one subcommand per
// scenario.
func NewFuzzyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FuzzyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fuzzy",
		Short: "Run randomized end-to-end generation scenarios",
		Long: `Exercise the project generation pipeline with randomized parameter
choices. Scenarios run in a scratch directory that is removed afterward
whatever the outcome. Pass --seed to replay a failing run with
byte-identical choices.`,
	}

	cmd.PersistentFlags().Uint64VarP(&opts.Seed, "seed", "s", 0, "randomizer seed for replayable runs")
	cmd.PersistentFlags().StringVar(&opts.Scratch, "scratch", os.TempDir(), "scratch base directory")
	cmd.PersistentFlags().StringVar(&opts.LogPath, "log", "", "append results to a run-history database")

	for _, scenario := range fuzzy.Scenarios {
		cmd.AddCommand(newFuzzyScenarioCommand(opts, scenario))
	}
	return cmd
}

func newFuzzyScenarioCommand(opts *FuzzyOptions, scenario fuzzy.Scenario) *cobra.Command {
	short := map[fuzzy.Scenario]string{
		fuzzy.GenerateTemplate: "Generate a fresh project with randomized choices",
		fuzzy.Scaffold:         "Generate a project and scaffold randomized resources into it",
	}

	return &cobra.Command{
		Use:           string(scenario),
		Short:         short[scenario],
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFuzzy(opts, cmd, scenario)
		},
	}
}

func runFuzzy(opts *FuzzyOptions, cmd *cobra.Command, scenario fuzzy.Scenario) error {
	log, err := opts.Logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	randomizer := fuzzy.NewFromTime()
	if cmd.Flags().Changed("seed") {
		randomizer = fuzzy.New(opts.Seed)
	}

	runner := &fuzzy.Runner{
		Exec:   execx.NewExecRunner(),
		Log:    log,
		Stream: cmd.OutOrStdout(),
	}
	if opts.LogPath != "" {
		history, err := runlog.Open(opts.LogPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "open run history", err)
		}
		defer history.Close()
		runner.History = history
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	result := FuzzyResult{Scenario: string(scenario), Seed: randomizer.Seed()}

	if err := runner.Run(cmd.Context(), scenario, randomizer, opts.Scratch); err != nil {
		message := fmt.Sprintf("%v; replay with: strutdev fuzzy --seed %d %s",
			err, randomizer.Seed(), scenario)
		if ferr := formatter.Error("E_SCENARIO_FAILED", message, result); ferr != nil {
			return ferr
		}
		return NewExitError(ExitFailure, "scenario failed")
	}

	result.Pass = true
	return formatter.Success(result)
}
