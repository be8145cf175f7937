package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashFile computes the SHA-256 content digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// TileKey generates the cache key for a rasterized document: the
// source's content digest plus the render DPI, since the same document
// rendered at a different resolution is a different set of tiles.
func TileKey(sourceDigest string, dpi int) string {
	return fmt.Sprintf("tiles:%s:%d", sourceDigest, dpi)
}
