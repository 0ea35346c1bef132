// Package pathutil implements POSIX path
// normalization and conversion between NodeId and absolute filesystem
// paths, with the same cross-platform handling a normalizePath /
// normalizeForPattern pair needs.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToPosix replaces backslashes with forward slashes.
func ToPosix(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// isWindowsDriveAbsolute reports whether p looks like "C:/..." or "C:\\...".
func isWindowsDriveAbsolute(p string) bool {
	if len(p) < 3 {
		return false
	}
	drive := p[0]
	isLetter := (drive >= 'a' && drive <= 'z') || (drive >= 'A' && drive <= 'Z')
	return isLetter && p[1] == ':' && (p[2] == '/' || p[2] == '\\')
}

func isPosixAbsolute(p string) bool {
	return strings.HasPrefix(p, "/")
}

// AbsPathToNodeID resolves absPath relative to cwd and returns the
// repo-relative POSIX NodeId plus whether the path falls outside cwd.
func AbsPathToNodeID(absPath, cwd string) (string, bool) {
	cleanCwd := strings.TrimRight(ToPosix(filepath.Clean(cwd)), "/")
	cleanAbs := ToPosix(filepath.Clean(absPath))

	if cleanAbs == cleanCwd {
		return "", false
	}

	prefix := cleanCwd + "/"
	if strings.HasPrefix(cleanAbs, prefix) {
		rel := strings.TrimPrefix(cleanAbs, prefix)
		rel = strings.TrimPrefix(rel, "./")
		return rel, false
	}

	return cleanAbs, true
}

// NodeIDToAbsPath converts a NodeId back to an absolute path under cwd.
// Returns ok=false for builtin ids ("node:..."); returns the id
// unchanged when it is already POSIX- or Windows-drive-absolute;
// otherwise joins cwd with id treated as a POSIX-relative path.
func NodeIDToAbsPath(cwd, id string) (absPath string, ok bool) {
	if strings.HasPrefix(id, "node:") {
		return "", false
	}
	if isPosixAbsolute(id) || isWindowsDriveAbsolute(id) {
		return id, true
	}
	return filepath.Join(cwd, filepath.FromSlash(id)), true
}
