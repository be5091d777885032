package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const rootManifest = `[package]
name = "strut"
version = "0.8.1"

[workspace]
members = ["starters/saas", "examples/demo", "crates/workers", "crates/testing"]
`

const starterManifest = `# saas starter
[package]
name = "saas-starter"
version = "0.1.0"

[dependencies]
strut = { version = "0.8.1", features = ["auth"] }
serde = "1.0"

[dev-dependencies.strut-testing]
version = "0.8.1"
`

const demoManifest = `[package]
name = "demo"
version = "0.1.0"

[dependencies]
strut = "0.8.1"
strut-workers = { version = "0.8.1" }
strut-ui = { version = "0.8.1" }
unrelated = { version = "0.8.1" }
`

const workersManifest = `[package]
name = "strut-workers"
version = "0.8.1"

[dependencies]
strut = "0.8.1"
`

const testingManifest = `[package]
name = "strut-testing"
version = "0.8.1"
`

func writeWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("strut.toml", rootManifest)
	write("starters/saas/strut.toml", starterManifest)
	write("examples/demo/strut.toml", demoManifest)
	write("crates/workers/strut.toml", workersManifest)
	write("crates/testing/strut.toml", testingManifest)
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLoad(t *testing.T) {
	dir := writeWorkspace(t)

	ws, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "strut", ws.Root.Name)
	assert.Equal(t, "0.8.1", ws.Root.Version)
	require.Len(t, ws.Members, 4)
	assert.Equal(t, "saas-starter", ws.Members[0].Name)
	assert.Equal(t, "demo", ws.Members[1].Name)
	assert.Equal(t, "strut-workers", ws.Members[2].Name)
	assert.Equal(t, "strut-testing", ws.Members[3].Name)
}

func TestBumpRewritesAllDependencyForms(t *testing.T) {
	dir := writeWorkspace(t)
	ws, err := Load(dir)
	require.NoError(t, err)

	b := &Bump{Version: "0.9.0", Log: zap.NewNop().Sugar()}
	require.NoError(t, b.Run(ws))

	root := readFile(t, ws.Root.ManifestPath)
	assert.Contains(t, root, `version = "0.9.0"`)

	starter := readFile(t, ws.Members[0].ManifestPath)
	assert.Contains(t, starter, `strut = { version = "0.9.0", features = ["auth"] }`)
	assert.Contains(t, starter, "[dev-dependencies.strut-testing]\nversion = \"0.9.0\"")
	// Unrelated content is untouched, including comments and other deps.
	assert.Contains(t, starter, "# saas starter")
	assert.Contains(t, starter, `serde = "1.0"`)
	assert.Contains(t, starter, `version = "0.1.0"`)

	demo := readFile(t, ws.Members[1].ManifestPath)
	assert.Contains(t, demo, `strut = "0.9.0"`)
	assert.Contains(t, demo, `strut-workers = { version = "0.9.0" }`)
	assert.Contains(t, demo, `unrelated = { version = "0.8.1" }`)
}

func TestBumpLeavesPrefixSharingNonMembersAlone(t *testing.T) {
	dir := writeWorkspace(t)
	ws, err := Load(dir)
	require.NoError(t, err)

	b := &Bump{Version: "0.9.0", Log: zap.NewNop().Sugar()}
	require.NoError(t, b.Run(ws))

	// strut-ui shares the "strut-" prefix but is not a workspace member,
	// so its constraint must survive the bump untouched.
	demo := readFile(t, ws.Members[1].ManifestPath)
	assert.Contains(t, demo, `strut-ui = { version = "0.8.1" }`)

	// Actual sibling members are rewritten wherever they appear.
	workers := readFile(t, ws.Members[2].ManifestPath)
	assert.Contains(t, workers, `strut = "0.9.0"`)
	starter := readFile(t, ws.Members[0].ManifestPath)
	assert.Contains(t, starter, "[dev-dependencies.strut-testing]\nversion = \"0.9.0\"")
}

func TestBumpIsIdempotent(t *testing.T) {
	dir := writeWorkspace(t)
	ws, err := Load(dir)
	require.NoError(t, err)

	b := &Bump{Version: "0.9.0", Log: zap.NewNop().Sugar()}
	require.NoError(t, b.Run(ws))

	snapshot := map[string]string{}
	for _, pkg := range append([]Package{ws.Root}, ws.Members...) {
		snapshot[pkg.ManifestPath] = readFile(t, pkg.ManifestPath)
	}

	// Second pass with the same target produces no further diff.
	ws2, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, b.Run(ws2))

	for path, want := range snapshot {
		assert.Equal(t, want, readFile(t, path), "unexpected diff in %s", path)
	}
}

func TestBumpExcludesStarters(t *testing.T) {
	dir := writeWorkspace(t)
	ws, err := Load(dir)
	require.NoError(t, err)

	before := readFile(t, ws.Members[0].ManifestPath)

	b := &Bump{Version: "0.9.0", ExcludeStarters: true, Log: zap.NewNop().Sugar()}
	require.NoError(t, b.Run(ws))

	assert.Equal(t, before, readFile(t, ws.Members[0].ManifestPath))
	assert.Contains(t, readFile(t, ws.Members[1].ManifestPath), `strut = "0.9.0"`)
}

func TestBumpRejectsMalformedVersion(t *testing.T) {
	dir := writeWorkspace(t)
	ws, err := Load(dir)
	require.NoError(t, err)

	for _, v := range []string{"", "v0.9.0", "not-a-version", "1.2.3.4"} {
		b := &Bump{Version: v, Log: zap.NewNop().Sugar()}
		assert.Error(t, b.Run(ws), "version %q must be rejected", v)
	}
}

func TestConfirm(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false}, // EOF declines
	}
	for _, tc := range cases {
		var out strings.Builder
		got, err := Confirm(strings.NewReader(tc.input), &out, "upgrading strut from 0.8.1 to 0.9.0")
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
		assert.Contains(t, out.String(), "upgrading strut from 0.8.1 to 0.9.0")
	}
}
