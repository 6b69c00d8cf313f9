// Package verify checks that a directory contains the identifying files of
// a known piece of software.
//
// An identifying file is a (relative path, expected size, expected MD5)
// triple. Verification is a probe, not an assertion: missing files,
// permission errors and content mismatches all simply report false, so
// callers can test a directory against several candidate layouts and pick
// the one that matches. MD5 is the digest of record for existing
// identifying-file tables and is used here for identification only.
package verify

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// File identifies one file by relative path, byte size and MD5 hex digest.
type File struct {
	Path string
	Size int64
	MD5  string
}

// Verify reports whether every identifying file exists under dir with
// matching size and checksum. Any I/O failure counts as a mismatch, never
// an error.
func Verify(files []File, dir string) bool {
	for _, f := range files {
		if !matches(f, dir) {
			return false
		}
	}

	return true
}

func matches(f File, dir string) bool {
	path := filepath.Join(dir, f.Path)

	info, err := os.Stat(path)
	if err != nil || info.Size() != f.Size {
		return false
	}

	digest, err := HashFile(path)
	if err != nil {
		return false
	}

	return strings.EqualFold(digest, f.MD5)
}

// HashFile returns the MD5 hex digest of the file at path.
func HashFile(path string) (string, error) {
	realfile, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer realfile.Close()

	hasher := md5.New()
	if _, err := io.Copy(hasher, realfile); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Fingerprint returns a 64-bit xxHash over an identifying-file set, a
// cheap stable key for caching which software a file set describes. The
// order of files does not matter.
func Fingerprint(files []File) uint64 {
	var acc uint64
	size := make([]byte, 8)
	for _, f := range files {
		d := xxhash.New()
		_, _ = d.WriteString(f.Path)
		_, _ = d.WriteString("\x00")
		binary.LittleEndian.PutUint64(size, uint64(f.Size))
		_, _ = d.Write(size)
		_, _ = d.WriteString(strings.ToLower(f.MD5))
		acc ^= d.Sum64()
	}

	return acc
}
