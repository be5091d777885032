package fuzzy

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/strutframework/strutdev/internal/execx"
	"github.com/strutframework/strutdev/internal/gen"
)

// Scenario names one scripted fuzzy run.
type Scenario string

const (
	// GenerateTemplate generates a fresh project with randomized
	// parameter choices.
	GenerateTemplate Scenario = "generate-template"

	// Scaffold generates a fresh project, then scaffolds randomized
	// resources into it.
	Scaffold Scenario = "scaffold"
)

// Scenarios lists every known scenario for CLI validation.
var Scenarios = []Scenario{GenerateTemplate, Scaffold}

// projectParams are the randomized choices of one project generation.
type projectParams struct {
	Name       string
	Template   string
	Database   string
	Background string
	Assets     string
}

func drawProjectParams(r *Randomizer, c Candidates) projectParams {
	return projectParams{
		Name:       "app_" + r.Word(8),
		Template:   r.Pick(c.Templates),
		Database:   r.Pick(c.Databases),
		Background: r.Pick(c.Background),
		Assets:     r.Pick(c.Assets),
	}
}

// generateProject runs `strut new` in dir with choices drawn from r and
// returns the generated project's directory.
func generateProject(ctx context.Context, exec execx.Runner, r *Randomizer, c Candidates, dir string, stream io.Writer) (string, error) {
	params := drawProjectParams(r, c)

	_, err := exec.Run(ctx, execx.Spec{
		Program: "strut",
		Args: []string{
			"new",
			"-n", params.Name,
			"-t", params.Template,
			"--db", params.Database,
			"--bg", params.Background,
			"--assets", params.Assets,
		},
		Dir:    dir,
		Stream: stream,
	})
	if err != nil {
		return "", fmt.Errorf("generate project %s: %w", params.Name, err)
	}
	return filepath.Join(dir, params.Name), nil
}

// scaffoldResources runs one or more `strut generate scaffold`
// invocations against projectDir, with field specs drawn from r over the
// known type tags plus the relation marker.
func scaffoldResources(ctx context.Context, exec execx.Runner, r *Randomizer, projectDir string, stream io.Writer) error {
	tags := append(gen.SchemaTags(), gen.ReferencesTag)

	// Each decision is drawn exactly once, in a fixed order, so a seed
	// maps to one unambiguous decision sequence.
	resources := r.IntBetween(1, 3)
	for i := 0; i < resources; i++ {
		name := "res_" + r.Word(6)
		args := []string{"generate", "scaffold", name}
		fields := r.IntBetween(1, 4)
		for j := 0; j < fields; j++ {
			args = append(args, fmt.Sprintf("f_%s:%s", r.Word(5), r.Pick(tags)))
		}

		_, err := exec.Run(ctx, execx.Spec{
			Program: "strut",
			Args:    args,
			Dir:     projectDir,
			Stream:  stream,
		})
		if err != nil {
			return fmt.Errorf("scaffold resource %s: %w", name, err)
		}
	}
	return nil
}
