// Package signing implements the signing collaborator with ed25519 signatures
// over SHA-256 digests. Both operations are deterministic: identical input
// always yields identical hex output.
package signing

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	// HashHexLen is the length of a Hash result.
	HashHexLen = sha256.Size * 2
	// SignatureHexLen is the length of a Sign result.
	SignatureHexLen = ed25519.SignatureSize * 2
)

// Ed25519Signer signs payloads with a fixed private key.
type Ed25519Signer struct {
	priv ed25519.PrivateKey
}

// NewEd25519Signer derives a signer from a 32-byte seed.
func NewEd25519Signer(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signing: seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	return &Ed25519Signer{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// NewEd25519SignerFromHex derives a signer from a hex encoded seed.
func NewEd25519SignerFromHex(seedHex string) (*Ed25519Signer, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("signing: decode seed: %w", err)
	}

	return NewEd25519Signer(seed)
}

// GenerateEd25519Signer creates a signer with a random key.
func GenerateEd25519Signer() (*Ed25519Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("signing: generate key: %w", err)
	}

	return &Ed25519Signer{priv: priv}, nil
}

// Hash returns the hex SHA-256 digest of data.
func (s *Ed25519Signer) Hash(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Sign returns the hex ed25519 signature of data's SHA-256 digest.
func (s *Ed25519Signer) Sign(data []byte) (string, error) {
	if s == nil || len(s.priv) == 0 {
		return "", errors.New("signing: signer has no key")
	}

	sum := sha256.Sum256(data)

	return hex.EncodeToString(ed25519.Sign(s.priv, sum[:])), nil
}

// PublicKeyHex returns the hex encoded public key.
func (s *Ed25519Signer) PublicKeyHex() string {
	return hex.EncodeToString(s.priv.Public().(ed25519.PublicKey))
}

// Verify checks a signature produced by Sign against a hex public key.
func Verify(publicKeyHex string, data []byte, signatureHex string) bool {
	pub, err := hex.DecodeString(publicKeyHex)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}

	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}

	sum := sha256.Sum256(data)

	return ed25519.Verify(ed25519.PublicKey(pub), sum[:], sig)
}
