package domain

import (
	"crypto/md5" //nolint:gosec // content addressing, not a security boundary
	"encoding/hex"
	"fmt"
	"os"
)

// ContentHash returns the hex digest of raw bytes. Used as the cache key
// for translated text and, via FileHash, for whole documents.
func ContentHash(data []byte) string {
	sum := md5.Sum(data) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// FileHash returns the content hash of a file's bytes. The hash is a pure
// function of content: renaming or copying the file never changes it, any
// byte edit always does.
func FileHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return ContentHash(data), nil
}
