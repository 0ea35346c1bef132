// Package scanner implements the universe scanner.
// It enumerates candidate repo-relative paths under a root directory,
// applying gitignore plus include/exclude glob precedence. Grounded on
// the gitignore loading/matching pattern in
// ingo-eichhorst-agent-readyness/internal/discovery/walker.go, with the
// hand-rolled double-star matching used in
// internal/analyzer/graph.go (matchesDoubleStarPattern /
// matchDoubleStarRecursive) replaced by
// github.com/bmatcuk/doublestar/v4, the library the rest of the
// retrieved corpus reaches for instead.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

// Scan enumerates the candidate file universe under cwd
// and returns the sorted, deduplicated, included repo-relative POSIX
// paths.
func Scan(cwd string, cfg types.ScanConfig) ([]string, error) {
	gi := loadGitignore(cwd)

	base, err := baseEnumerate(cwd)
	if err != nil {
		return nil, err
	}

	extra, err := extraEnumerate(cwd, cfg.Includes)
	if err != nil {
		return nil, err
	}

	union := dedupeSorted(append(base, extra...))

	out := make([]string, 0, len(union))
	for _, p := range union {
		if !keep(p, gi, cfg) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// loadGitignore loads cwd/.gitignore, treating an absent or unreadable
// file as an empty ignore set.
func loadGitignore(cwd string) *ignore.GitIgnore {
	path := filepath.Join(cwd, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}

// baseEnumerate walks cwd recursively, dot-files included, symlinks
// followed, never descending into .git or node_modules.
func baseEnumerate(cwd string) ([]string, error) {
	var out []string
	visited := map[string]bool{}

	var walk func(relDir string) error
	walk = func(relDir string) error {
		absDir := filepath.Join(cwd, relDir)
		real, err := filepath.EvalSymlinks(absDir)
		if err != nil {
			real = absDir
		}
		if visited[real] {
			return nil
		}
		visited[real] = true

		entries, err := os.ReadDir(absDir)
		if err != nil {
			return nil
		}
		for _, e := range entries {
			name := e.Name()
			relPath := name
			if relDir != "" {
				relPath = relDir + "/" + name
			}

			if name == ".git" || name == "node_modules" {
				continue
			}

			info, err := e.Info()
			if err != nil {
				continue
			}
			isDir := info.IsDir()
			if info.Mode()&fs.ModeSymlink != 0 {
				target, err := os.Stat(filepath.Join(cwd, relPath))
				if err != nil {
					continue
				}
				isDir = target.IsDir()
			}

			if isDir {
				if err := walk(relPath); err != nil {
					return err
				}
				continue
			}

			out = append(out, filepath.ToSlash(relPath))
		}
		return nil
	}

	if err := walk(""); err != nil {
		return nil, err
	}
	return out, nil
}

// extraEnumerate runs each include glob that is not "**/*" against cwd,
// still excluding .git/** so that node_modules/** can be re-included.
func extraEnumerate(cwd string, includes []string) ([]string, error) {
	var out []string
	fsys := os.DirFS(cwd)
	for _, pattern := range includes {
		if pattern == "**/*" {
			continue
		}
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			if m == ".git" || strings.HasPrefix(m, ".git/") {
				continue
			}
			info, err := fs.Stat(fsys, m)
			if err != nil || info.IsDir() {
				continue
			}
			out = append(out, m)
		}
	}
	return out, nil
}

func dedupeSorted(paths []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func includeMatch(p string, includes []string) bool {
	for _, pattern := range includes {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

func excludeMatch(p string, excludes []string) bool {
	for _, pattern := range excludes {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

// keep applies the scanner's precedence: implicit-deny (.git,
// node_modules) > exclude > include > gitignore > default-allow.
func keep(p string, gi *ignore.GitIgnore, cfg types.ScanConfig) bool {
	if p == ".git" || strings.HasPrefix(p, ".git/") {
		return false
	}

	explicitAllow := includeMatch(p, cfg.Includes)

	if (p == "node_modules" || strings.HasPrefix(p, "node_modules/")) && !explicitAllow {
		return false
	}

	gitignored := gi != nil && gi.MatchesPath(p)
	included := !gitignored

	if explicitAllow {
		included = true
	}
	if excludeMatch(p, cfg.Excludes) {
		included = false
	}

	return included
}
