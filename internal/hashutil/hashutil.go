// Package hashutil implements content hashing, streaming a file's
// bytes directly instead of hashing an in-memory string.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Result holds a file's size and lowercase hex SHA-256 digest.
type Result struct {
	Size     int64
	HashHex  string
}

// HashFile opens absPath, streams it through SHA-256, and returns its
// size and digest. Returns an error if the path cannot be opened or
// read.
func HashFile(absPath string) (Result, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return Result{}, fmt.Errorf("hashutil: open %s: %w", absPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("hashutil: stat %s: %w", absPath, err)
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Result{}, fmt.Errorf("hashutil: read %s: %w", absPath, err)
	}

	return Result{
		Size:    info.Size(),
		HashHex: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// TryHashFile is a best-effort wrapper: it returns (Result{}, false)
// instead of an error when the file cannot be hashed, for callers that
// treat an unreadable file as an absence rather than a fatal condition
// (matching IoError handling for unreadable source files during rehash).
func TryHashFile(absPath string) (Result, bool) {
	res, err := HashFile(absPath)
	if err != nil {
		return Result{}, false
	}
	return res, true
}
