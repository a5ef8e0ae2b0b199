// Package fingerprint computes content digests used to identify payloads
// across logs and exports.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"io"

	"lukechampine.com/blake3"
)

// FromReader returns the hex-encoded 32-byte blake3 digest of r.
func FromReader(r io.Reader) (string, error) {
	h := blake3.New(32, nil)
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("calculating blake3 hash: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Short returns the first 12 hex characters of a digest for log lines.
func Short(sum string) string {
	if len(sum) <= 12 {
		return sum
	}
	return sum[:12]
}
