package fuzzy

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/strutframework/strutdev/internal/execx"
	"github.com/strutframework/strutdev/internal/runlog"
)

// Runner executes fuzzy scenarios in a scratch directory that is removed
// unconditionally afterward, whatever the outcome.
type Runner struct {
	Exec    execx.Runner
	Log     *zap.SugaredLogger
	History *runlog.Log

	// Stream, when non-nil, receives subprocess output.
	Stream io.Writer
}

// Run executes scenario under a fresh subdirectory of scratchBase with
// choices drawn from r. The scratch directory is acquired scoped: it is
// removed on every exit path, including early failure; a removal failure
// is logged but never masks the scenario result.
func (f *Runner) Run(ctx context.Context, scenario Scenario, r *Randomizer, scratchBase string) (err error) {
	candidates, err := DefaultCandidates()
	if err != nil {
		return err
	}

	scratch := filepath.Join(scratchBase, "strut-fuzzy-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			f.Log.Warnw("failed to clean scratch directory",
				"dir", scratch, "error", rmErr)
		}
		f.record(scenario, r, err)
	}()

	f.Log.Infow("running fuzzy scenario",
		"scenario", string(scenario), "seed", r.Seed(), "scratch", scratch)

	switch scenario {
	case GenerateTemplate:
		_, err = generateProject(ctx, f.Exec, r, candidates, scratch, f.Stream)
	case Scaffold:
		var projectDir string
		projectDir, err = generateProject(ctx, f.Exec, r, candidates, scratch, f.Stream)
		if err == nil {
			err = scaffoldResources(ctx, f.Exec, r, projectDir, f.Stream)
		}
	default:
		err = fmt.Errorf("unknown fuzzy scenario %q", scenario)
	}

	if err != nil {
		return fmt.Errorf("fuzzy scenario %s (seed %d): %w", scenario, r.Seed(), err)
	}
	return nil
}

func (f *Runner) record(scenario Scenario, r *Randomizer, runErr error) {
	if f.History == nil {
		return
	}
	entry := runlog.Entry{
		Kind: "fuzzy",
		Name: string(scenario),
		Pass: runErr == nil,
		Seed: r.Seed(),
	}
	if runErr != nil {
		entry.Diagnostic = runErr.Error()
	}
	if err := f.History.Append(entry); err != nil {
		f.Log.Warnw("failed to record run history", "error", err)
	}
}
