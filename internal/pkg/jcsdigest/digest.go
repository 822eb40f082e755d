package jcsdigest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Canonicalize returns the RFC 8785 form of raw JSON.
func Canonicalize(input []byte) ([]byte, error) {
	return jcs.Transform(input)
}

// Digest canonicalizes JSON and returns its sha256 as hex.
func Digest(input []byte) (string, error) {
	canonical, err := Canonicalize(input)
	if err != nil {
		return "", fmt.Errorf("canonicalize json failed: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// DigestValue marshals v and digests the result.
func DigestValue(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal value failed: %w", err)
	}
	return Digest(raw)
}
