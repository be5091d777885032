package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// starterPrefix marks template-like workspace members that a bump can
// skip: their pinned dependency versions are updated on release instead.
const starterPrefix = "starters" + string(os.PathSeparator)

// Bump rewrites every dependency constraint on the root package (and its
// "<root>-*" sibling packages) to Version across the workspace, plus the
// root package's own version.
//
// The rewrite is all-or-nothing only at the caller's confirmation
// boundary: a crash mid-run can leave a mix of old and new versions.
// Running it again with the same target converges; the rewrite is
// idempotent.
type Bump struct {
	Version         string
	ExcludeStarters bool
	Log             *zap.SugaredLogger
}

// Run applies the bump to ws, writing only manifests whose content
// changed. Unrelated manifest bytes are preserved exactly.
func (b *Bump) Run(ws *Workspace) error {
	if !ValidVersion(b.Version) {
		return fmt.Errorf("invalid version %q: expected a bare semantic version like 1.2.3", b.Version)
	}

	targets := rewriteTargets(ws)

	if err := b.rewrite(ws.Root, targets, true); err != nil {
		return err
	}
	for _, member := range ws.Members {
		if b.ExcludeStarters && isStarter(ws, member) {
			b.Log.Infow("skipping starter package", "package", member.Name)
			continue
		}
		if err := b.rewrite(member, targets, false); err != nil {
			return err
		}
	}
	return nil
}

// rewriteTargets returns the dependency names whose constraints track
// the root version: the root package itself plus workspace members named
// as its "<root>-" siblings. A third-party dependency that merely shares
// the prefix is not a target.
func rewriteTargets(ws *Workspace) map[string]struct{} {
	targets := map[string]struct{}{ws.Root.Name: {}}
	for _, member := range ws.Members {
		if strings.HasPrefix(member.Name, ws.Root.Name+"-") {
			targets[member.Name] = struct{}{}
		}
	}
	return targets
}

func (b *Bump) rewrite(pkg Package, targets map[string]struct{}, isRoot bool) error {
	data, err := os.ReadFile(pkg.ManifestPath)
	if err != nil {
		return fmt.Errorf("read manifest of %s: %w", pkg.Name, err)
	}

	next := RewriteDependencies(string(data), b.Version, targets)
	if isRoot {
		next = rewritePackageVersion(next, b.Version)
	}

	if next == string(data) {
		return nil
	}
	if err := os.WriteFile(pkg.ManifestPath, []byte(next), 0o644); err != nil {
		return fmt.Errorf("write manifest of %s: %w", pkg.Name, err)
	}
	b.Log.Infow("updated manifest", "package", pkg.Name, "version", b.Version)
	return nil
}

func isStarter(ws *Workspace, member Package) bool {
	rel, err := filepath.Rel(ws.Root.Dir, member.Dir)
	if err != nil {
		return false
	}
	return strings.HasPrefix(rel, starterPrefix)
}

var (
	// strut = "0.8.1" or strut-workers = { version = "0.8.1", ... }
	inlineVersionRe = regexp.MustCompile(`(version\s*=\s*")[^"]*(")`)
	bareVersionRe   = regexp.MustCompile(`^(\s*)([A-Za-z0-9_-]+)(\s*=\s*")[^"]*(".*)$`)
	depKeyRe        = regexp.MustCompile(`^\s*([A-Za-z0-9_-]+)\s*=`)
	sectionRe       = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)
	packageVerRe    = regexp.MustCompile(`^(\s*version\s*=\s*")[^"]*(".*)$`)
)

// RewriteDependencies returns src with every dependency constraint on
// one of the target package names set to version. All other lines pass
// through untouched, byte for byte.
func RewriteDependencies(src, version string, targets map[string]struct{}) string {
	lines := strings.Split(src, "\n")
	section := ""

	for i, line := range lines {
		if m := sectionRe.FindStringSubmatch(line); m != nil {
			section = m[1]
			continue
		}

		switch {
		case isDependencyTable(section):
			key := depKey(line)
			if key == "" || !isTarget(key, targets) {
				continue
			}
			if m := bareVersionRe.FindStringSubmatch(line); m != nil {
				// plain string form: strut = "0.8.1"
				lines[i] = m[1] + m[2] + m[3] + version + m[4]
			} else {
				// inline table form: strut = { version = "0.8.1", ... }
				lines[i] = inlineVersionRe.ReplaceAllString(line, "${1}"+version+"${2}")
			}
		case isNamedDependencyTable(section, targets):
			// [dependencies.strut] block form
			if m := packageVerRe.FindStringSubmatch(line); m != nil {
				lines[i] = m[1] + version + m[2]
			}
		}
	}
	return strings.Join(lines, "\n")
}

// rewritePackageVersion updates the version line of the [package] table.
func rewritePackageVersion(src, version string) string {
	lines := strings.Split(src, "\n")
	section := ""
	for i, line := range lines {
		if m := sectionRe.FindStringSubmatch(line); m != nil {
			section = m[1]
			continue
		}
		if section != "package" {
			continue
		}
		if m := packageVerRe.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + version + m[2]
		}
	}
	return strings.Join(lines, "\n")
}

func isDependencyTable(section string) bool {
	switch section {
	case "dependencies", "dev-dependencies", "build-dependencies":
		return true
	}
	return false
}

func isNamedDependencyTable(section string, targets map[string]struct{}) bool {
	for _, prefix := range []string{"dependencies.", "dev-dependencies.", "build-dependencies."} {
		if name, ok := strings.CutPrefix(section, prefix); ok {
			return isTarget(name, targets)
		}
	}
	return false
}

func isTarget(name string, targets map[string]struct{}) bool {
	_, ok := targets[name]
	return ok
}

func depKey(line string) string {
	m := depKeyRe.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}
