// package checksum computes content fingerprints for catalogued files.
//
// Fingerprints are SHA-256 digests of the full file content. File size and
// modification time are never consulted; change detection throughout the
// catalog is content driven.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/hile/soundforest/internal/shared"
)

// Compute reads the full content of the file at path and returns its
// hex-encoded SHA-256 digest.
func Compute(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", shared.ErrUnreadableFile, path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("%w: %s: %v", shared.ErrUnreadableFile, path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify recomputes the fingerprint of the file at path and compares it to
// expected.
func Verify(path string, expected string) (bool, error) {
	actual, err := Compute(path)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}
