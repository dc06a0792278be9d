// Package circuits holds helpers shared by the circuit packages: artifact
// hashing and persistence.
package circuits

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// HashArtifact returns the SHA256 hex digest of a serialized artifact. Setup
// logs it for the compiled vote circuit, so key pairs generated from
// different circuit builds can be told apart.
func HashArtifact(artifact io.WriterTo) (string, error) {
	hasher := sha256.New()
	if _, err := artifact.WriteTo(hasher); err != nil {
		return "", fmt.Errorf("hash artifact: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashBytesSHA256 returns the SHA256 hex digest of already encoded bytes,
// such as an exported verifying key. The digest is the key fingerprint that
// voters and verifiers compare out of band.
func HashBytesSHA256(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
