package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strutframework/strutdev/internal/execx"
	"github.com/strutframework/strutdev/internal/gen"
	"github.com/strutframework/strutdev/internal/workspace"
)

// GenerateOptions holds flags for the generate model command.
type GenerateOptions struct {
	*RootOptions
	Link          bool
	MigrationOnly bool
	PkgName       string
}

// GenerateModelResult is the success payload of generate model.
type GenerateModelResult struct {
	Name     string   `json:"name"`
	Messages []string `json:"messages,omitempty"`
}

func (r GenerateModelResult) String() string {
	return strings.Join(r.Messages, "\n")
}

// NewGenerateCommand creates the generate command tree.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate source artifacts",
	}
	cmd.AddCommand(newGenerateModelCommand(rootOpts))
	return cmd
}

func newGenerateModelCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "model NAME [field:type ...]",
		Short: "Generate a model artifact, its test scaffold, and run migrations",
		Long: `Generate the model and companion test artifacts for NAME from
field specifications, then apply pending migrations and regenerate
entity bindings.

Field types are scalar tags (string, int, boolean, ...) or the
"references" marker, which expands into a foreign-key column plus a
reference. The created_at/updated_at variants are generated by the
framework automatically and are skipped with a warning if supplied.

If the migration step fails, the rendered artifacts stay on disk while
the database schema may lag behind them: re-run the whole generation
manually after fixing the cause.

Examples:
  strutdev generate model movie title:string rating:int
  strutdev generate model comment body:text author:references
  strutdev generate model follower --link user:references target:references
  strutdev generate model draft title:string --migration-only`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateModel(opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Link, "link", false, "generate a join table between two models")
	cmd.Flags().BoolVar(&opts.MigrationOnly, "migration-only", false, "skip the migrate/entities trigger")
	cmd.Flags().StringVar(&opts.PkgName, "pkg", "", "owning package name (default: workspace root package)")

	return cmd
}

func runGenerateModel(opts *GenerateOptions, cmd *cobra.Command, args []string) error {
	log, err := opts.Logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	fields, err := gen.ParseFields(args[1:])
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid field specification", err)
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	pkgName := opts.PkgName
	if pkgName == "" {
		ws, err := workspace.Load(dir)
		if err != nil {
			return WrapExitError(ExitCommandError,
				"cannot determine package name: not inside a strut workspace (use --pkg)", err)
		}
		pkgName = ws.Root.Name
	}

	generator := &gen.ModelGenerator{
		Renderer: gen.NewFileRenderer(dir),
		Trigger: &gen.MigrationTrigger{
			Runner: execx.NewExecRunner(),
			Dir:    dir,
			Stream: cmd.OutOrStdout(),
		},
		Log: log,
	}

	messages, err := generator.Generate(cmd.Context(), gen.ModelRequest{
		Name:          args[0],
		IsLink:        opts.Link,
		MigrationOnly: opts.MigrationOnly,
		Fields:        fields,
		PkgName:       pkgName,
	})
	if err != nil {
		if errors.Is(err, gen.ErrUnknownType) {
			return WrapExitError(ExitCommandError, "invalid field specification", err)
		}
		return WrapExitError(ExitFailure, "model generation failed", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	result := GenerateModelResult{Name: args[0]}
	if messages != "" {
		result.Messages = strings.Split(messages, "\n")
	}
	return formatter.Success(result)
}
