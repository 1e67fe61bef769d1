// Package hashutil fingerprints pipeline definitions
package hashutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Prefix names the algorithm in every checksum
const Prefix = "sha256:"

var bom = []byte{0xEF, 0xBB, 0xBF}

// Checksum returns Prefix followed by the hex sha256 of a definition. A
// leading byte order mark and CRLF line endings are ignored, like the YAML
// decoder ignores them, so the same definition saved on Windows hashes the
// same.
func Checksum(data []byte) string {
	data = bytes.TrimPrefix(data, bom)
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	sum := sha256.Sum256(data)
	return Prefix + hex.EncodeToString(sum[:])
}

// FileChecksum is Checksum of the file at path
func FileChecksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("checksum %s: %w", path, err)
	}
	return Checksum(data), nil
}
