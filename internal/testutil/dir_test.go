package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestChdirRestoresPreviousDirectory(t *testing.T) {
	before, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	tmp := t.TempDir()
	t.Run("inner", func(t *testing.T) {
		Chdir(t, tmp)

		got, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		// Getwd may resolve symlinks (notably on darwin temp dirs).
		want, _ := filepath.EvalSymlinks(tmp)
		gotResolved, _ := filepath.EvalSymlinks(got)
		if gotResolved != want {
			t.Fatalf("got %s, want %s", gotResolved, want)
		}
	})

	after, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if after != before {
		t.Fatalf("working directory leaked: %s != %s", after, before)
	}
}
