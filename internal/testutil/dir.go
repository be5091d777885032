// Package testutil provides shared helpers for strutdev tests.
package testutil

import (
	"os"
	"testing"
)

// Chdir switches the process working directory to dir for the duration
// of the test. The previous directory is restored via t.Cleanup, which
// runs on every exit path including Fatal and panics, so tests that
// lean on the working directory cannot leak it into other tests.
func Chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory %s: %v", prev, err)
		}
	})
}
