package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strutframework/strutdev/internal/testutil"
)

// execute runs the root command with args and optional stdin, returning
// combined output and the error.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootRejectsInvalidFormat(t *testing.T) {
	_, err := execute(t, "", "--format", "xml", "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestGenerateModelRejectsMalformedFieldSpec(t *testing.T) {
	_, err := execute(t, "", "generate", "model", "movie", "title", "--pkg", "demo")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "expected name:type")
}

func TestGenerateModelRejectsUnknownType(t *testing.T) {
	_, err := execute(t, "", "generate", "model", "movie", "rating:stars", "--pkg", "demo")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "try any of")
}

func TestGenerateModelMigrationOnlyWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	testutil.Chdir(t, dir)

	out, err := execute(t, "",
		"generate", "model", "movie", "title:string", "author:references",
		"--pkg", "demo_app", "--migration-only")
	require.NoError(t, err)
	assert.Contains(t, out, "file written to")

	assert.FileExists(t, filepath.Join(dir, "models", "movie.go"))
	assert.FileExists(t, filepath.Join(dir, "tests", "models", "movie_test.go"))
}

func TestGenerateModelJSONOutput(t *testing.T) {
	dir := t.TempDir()
	testutil.Chdir(t, dir)

	out, err := execute(t, "",
		"--format", "json",
		"generate", "model", "movie", "title:string",
		"--pkg", "demo_app", "--migration-only")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Name     string   `json:"name"`
			Messages []string `json:"messages"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "movie", resp.Data.Name)
	require.Len(t, resp.Data.Messages, 2)
	for _, msg := range resp.Data.Messages {
		assert.Contains(t, msg, "file written to")
	}
}

func TestGenerateModelRequiresWorkspaceOrPkg(t *testing.T) {
	testutil.Chdir(t, t.TempDir())

	_, err := execute(t, "", "generate", "model", "movie", "title:string", "--migration-only")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--pkg")
}

func TestTestCommandRejectsMissingDir(t *testing.T) {
	_, err := execute(t, "", "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func writeBumpWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("strut.toml", "[package]\nname = \"strut\"\nversion = \"0.8.1\"\n\n[workspace]\nmembers = [\"examples/demo\"]\n")
	write("examples/demo/strut.toml", "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n\n[dependencies]\nstrut = \"0.8.1\"\n")
	return dir
}

func TestBumpVersionDeclinedIsNoOp(t *testing.T) {
	dir := writeBumpWorkspace(t)
	testutil.Chdir(t, dir)

	out, err := execute(t, "n\n", "bump-version", "0.9.0")
	require.NoError(t, err)
	assert.Contains(t, out, "upgrading strut version from 0.8.1 to 0.9.0")
	assert.Contains(t, out, "aborted")

	data, err := os.ReadFile(filepath.Join(dir, "examples", "demo", "strut.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `strut = "0.8.1"`)
}

func TestBumpVersionConfirmedRewrites(t *testing.T) {
	dir := writeBumpWorkspace(t)
	testutil.Chdir(t, dir)

	out, err := execute(t, "y\n", "bump-version", "0.9.0")
	require.NoError(t, err)
	assert.Contains(t, out, "workspace now at 0.9.0")

	data, err := os.ReadFile(filepath.Join(dir, "examples", "demo", "strut.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `strut = "0.9.0"`)
}

func TestBumpVersionYesSkipsPrompt(t *testing.T) {
	dir := writeBumpWorkspace(t)
	testutil.Chdir(t, dir)

	out, err := execute(t, "", "bump-version", "0.9.0", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "[y/N]")

	data, err := os.ReadFile(filepath.Join(dir, "strut.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `version = "0.9.0"`)
}

func TestBumpVersionJSONOutput(t *testing.T) {
	dir := writeBumpWorkspace(t)
	testutil.Chdir(t, dir)

	out, err := execute(t, "", "--format", "json", "bump-version", "0.9.0", "--yes")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Package string `json:"package"`
			From    string `json:"from"`
			To      string `json:"to"`
			Skipped bool   `json:"skipped"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "strut", resp.Data.Package)
	assert.Equal(t, "0.8.1", resp.Data.From)
	assert.Equal(t, "0.9.0", resp.Data.To)
	assert.False(t, resp.Data.Skipped)
}

func TestBumpVersionDeclinedJSONReportsSkip(t *testing.T) {
	dir := writeBumpWorkspace(t)
	testutil.Chdir(t, dir)

	out, err := execute(t, "n\n", "--format", "json", "bump-version", "0.9.0")
	require.NoError(t, err)

	// The confirmation prompt precedes the JSON document.
	idx := strings.Index(out, "{")
	require.GreaterOrEqual(t, idx, 0)
	assert.Contains(t, out[idx:], `"skipped":true`)
	assert.Contains(t, out[idx:], `"status":"ok"`)
}

func TestBumpVersionRejectsMalformedVersion(t *testing.T) {
	dir := writeBumpWorkspace(t)
	testutil.Chdir(t, dir)

	_, err := execute(t, "", "bump-version", "not-a-version")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExitErrorCodes(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad input")))

	wrapped := WrapExitError(ExitFailure, "outer", assert.AnError)
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.Contains(t, wrapped.Error(), "outer")
	assert.ErrorIs(t, wrapped, assert.AnError)
}
