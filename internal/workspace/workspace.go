// Package workspace loads strut workspace metadata and propagates
// version bumps across member manifests.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"
)

// ManifestName is the manifest file present at the workspace root and in
// every member package directory.
const ManifestName = "strut.toml"

// manifest mirrors the subset of strut.toml needed for metadata. The
// dependency tables are rewritten textually, never re-serialized, so they
// are not modeled here.
type manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Workspace struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
}

// Package is one workspace member's identity and manifest location.
type Package struct {
	Name         string
	Version      string
	Dir          string
	ManifestPath string
}

// Workspace is the loaded metadata of a multi-package workspace: the root
// package plus every member listed in the root manifest, in listing order.
type Workspace struct {
	Root    Package
	Members []Package
}

// Load reads the workspace rooted at dir: the root manifest's package
// identity and each member's manifest.
func Load(dir string) (*Workspace, error) {
	root, m, err := loadManifest(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("load workspace root: %w", err)
	}
	if root.Name == "" {
		return nil, fmt.Errorf("workspace root %s has no package name", dir)
	}

	ws := &Workspace{Root: root}
	for _, member := range m.Workspace.Members {
		pkg, _, err := loadManifest(filepath.Join(dir, filepath.FromSlash(member), ManifestName))
		if err != nil {
			return nil, fmt.Errorf("load workspace member %s: %w", member, err)
		}
		ws.Members = append(ws.Members, pkg)
	}
	return ws, nil
}

func loadManifest(path string) (Package, *manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Package{}, nil, err
	}
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Package{}, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return Package{
		Name:         m.Package.Name,
		Version:      m.Package.Version,
		Dir:          filepath.Dir(path),
		ManifestPath: path,
	}, &m, nil
}

// ValidVersion reports whether v is a well-formed bare semantic version
// such as "0.8.1".
func ValidVersion(v string) bool {
	if v == "" || v[0] == 'v' {
		return false
	}
	return semver.IsValid("v" + v)
}
