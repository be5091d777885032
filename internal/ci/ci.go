// Package ci runs resource test suites across the workspace and
// aggregates their outcomes.
package ci

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/strutframework/strutdev/internal/execx"
	"github.com/strutframework/strutdev/internal/runlog"
	"github.com/strutframework/strutdev/internal/workspace"
)

// resourceRoots are the workspace subdirectories whose immediate children
// are independently testable resources.
var resourceRoots = []string{"starters", "examples"}

// Result is one resource's test outcome. Never mutated after creation.
type Result struct {
	Resource   string
	Pass       bool
	Diagnostic string
}

// Orchestrator runs resource test suites through an execx.Runner.
// History, when non-nil, receives one entry per result.
type Orchestrator struct {
	Runner  execx.Runner
	Log     *zap.SugaredLogger
	History *runlog.Log
}

// Run executes one resource's test suite in dir and returns its outcome.
// A non-zero exit is a failed result, not an error.
func (o *Orchestrator) Run(ctx context.Context, dir string) Result {
	name := filepath.Base(dir)
	o.Log.Infow("running resource tests", "resource", name)

	out, err := o.Runner.Run(ctx, execx.Spec{
		Program: "strut",
		Args:    []string{"test"},
		Dir:     dir,
	})

	res := Result{Resource: name, Pass: err == nil}
	if err != nil {
		res.Diagnostic = execx.FirstLine(out.Combined)
		if res.Diagnostic == "" {
			res.Diagnostic = err.Error()
		}
	}
	o.record(res)
	return res
}

// AllResources discovers every resource under root (the root library plus
// each manifest-bearing directory under starters/ and examples/) and runs
// them independently. One resource's failure never aborts the rest.
func (o *Orchestrator) AllResources(ctx context.Context, root string) ([]Result, error) {
	dirs, err := discoverResources(root)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(dirs))
	for _, dir := range dirs {
		results = append(results, o.Run(ctx, dir))
	}
	return results, nil
}

func (o *Orchestrator) record(res Result) {
	if o.History == nil {
		return
	}
	err := o.History.Append(runlog.Entry{
		Kind:       "ci",
		Name:       res.Resource,
		Pass:       res.Pass,
		Diagnostic: res.Diagnostic,
	})
	if err != nil {
		o.Log.Warnw("failed to record run history", "error", err)
	}
}

// discoverResources returns the root plus every immediate child of the
// resource roots that carries a workspace manifest, in sorted order.
func discoverResources(root string) ([]string, error) {
	dirs := []string{root}

	for _, sub := range resourceRoots {
		base := filepath.Join(root, sub)
		entries, err := os.ReadDir(base)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("enumerate resources under %s: %w", base, err)
		}

		var found []string
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(base, entry.Name())
			if _, err := os.Stat(filepath.Join(dir, workspace.ManifestName)); err == nil {
				found = append(found, dir)
			}
		}
		sort.Strings(found)
		dirs = append(dirs, found...)
	}
	return dirs, nil
}

// FormatResults renders the aggregate report: one line per resource with
// the first diagnostic line on failure, then a summary.
func FormatResults(results []Result) string {
	var b strings.Builder
	passed := 0

	for _, res := range results {
		if res.Pass {
			passed++
			fmt.Fprintf(&b, "✓ %s\n", res.Resource)
			continue
		}
		fmt.Fprintf(&b, "✗ %s\n", res.Resource)
		if res.Diagnostic != "" {
			fmt.Fprintf(&b, "  %s\n", res.Diagnostic)
		}
	}

	fmt.Fprintf(&b, "\n%d passed, %d failed, %d total\n",
		passed, len(results)-passed, len(results))
	return b.String()
}

// Failed reports whether any result in the batch failed.
func Failed(results []Result) bool {
	for _, res := range results {
		if !res.Pass {
			return true
		}
	}
	return false
}
