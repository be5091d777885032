package gen

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/strutframework/strutdev/internal/execx"
)

// Sentinel errors for the two migration steps, so callers can tell which
// one failed and print the retry-manually hint.
var (
	ErrMigrationFailed = errors.New("strut db migrate failed")
	ErrEntitiesFailed  = errors.New("strut db entities failed")
)

// MigrationTrigger runs the downstream schema commands after artifact
// generation: apply pending migrations, then regenerate entity bindings.
// Both run in Dir with the inherited environment, output streamed to
// Stream. The second command is only attempted when the first succeeds;
// there is no rollback of already-written artifacts.
type MigrationTrigger struct {
	Runner execx.Runner
	Dir    string
	Stream io.Writer
}

// Run executes both steps sequentially, blocking until each exits.
func (t *MigrationTrigger) Run(ctx context.Context) error {
	if _, err := t.run(ctx, "db", "migrate"); err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}
	if _, err := t.run(ctx, "db", "entities"); err != nil {
		return fmt.Errorf("%w: %v", ErrEntitiesFailed, err)
	}
	return nil
}

func (t *MigrationTrigger) run(ctx context.Context, args ...string) (execx.Output, error) {
	return t.Runner.Run(ctx, execx.Spec{
		Program: "strut",
		Args:    args,
		Dir:     t.Dir,
		Stream:  t.Stream,
	})
}
