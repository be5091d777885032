package gen

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movieContext() RenderContext {
	return RenderContext{
		Name:      "movie",
		Table:     "movies",
		Timestamp: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		PkgName:   "demo_app",
		Columns: []Column{
			{Name: "title", Type: "string"},
			{Name: "rating", Type: "integer"},
			{Name: "author_id", Type: "integer"},
		},
		References: []Reference{
			{Name: "author", ForeignKey: "author_id"},
		},
	}
}

func TestFileRendererWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	r := NewFileRenderer(dir)

	res, err := r.Render(ModelTemplate, movieContext())
	require.NoError(t, err)

	want := filepath.Join(dir, "models", "movie.go")
	assert.Equal(t, want, res.Path)
	require.Len(t, res.Messages, 1)
	assert.Contains(t, res.Messages[0], "file written to")

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, res.Text, string(data))
}

func TestModelArtifactGolden(t *testing.T) {
	r := NewFileRenderer(t.TempDir())

	res, err := r.Render(ModelTemplate, movieContext())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "model_artifact", []byte(res.Text))
}

func TestModelTestArtifactDestination(t *testing.T) {
	dir := t.TempDir()
	r := NewFileRenderer(dir)

	res, err := r.Render(ModelTestTemplate, movieContext())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tests", "models", "movie_test.go"), res.Path)
	assert.Contains(t, res.Text, "func TestMovieSchema(t *testing.T)")
}

func TestRenderRejectsMalformedTemplates(t *testing.T) {
	r := NewFileRenderer(t.TempDir())

	_, err := r.Render(Template{Name: "no_sep", Source: "to: x.go\nbody"}, movieContext())
	require.Error(t, err)

	_, err = r.Render(Template{Name: "no_dest", Source: "x.go\n---\nbody"}, movieContext())
	require.Error(t, err)
}
