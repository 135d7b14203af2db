// Package tor implements the Ed25519 v3 onion-service key codec and the
// torrc/config.yaml/ob_config text generators used by the controllers in
// pkg/controllers.
package tor

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base32"
	"fmt"
	"strings"
	"unicode"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/sha3"
)

// Version tags and lengths for the "type0" v1 Tor onion-service key blobs.
// These mirror the ED25519_V1_* constants Tor itself writes to
// hs_ed25519_secret_key / hs_ed25519_public_key.
var (
	ed25519V1SecretTypeZeroKey = []byte("== ed25519v1-secret: type0 ==\x00\x00\x00")
	ed25519V1PublicTypeZeroKey = []byte("== ed25519v1-public: type0 ==\x00\x00\x00")
)

const (
	versionLength              = 32
	ed25519V1SecretTypeZeroLen = 64
	ed25519V1PublicTypeZeroLen = 32
	onionDomainLength          = 56
)

// ParseError describes a malformed key blob; it is never fatal and carries a
// short diagnostic string suitable for an OnionKey's .status.state.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string { return e.msg }

func parseErrorf(format string, args ...any) error {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}

// ExpandedSecretKey is the 64-byte Tor expanded secret key: a clamped
// Ed25519 scalar followed by a 32-byte hash prefix used for signing.
type ExpandedSecretKey struct {
	scalar     [32]byte
	hashPrefix [32]byte
}

// GenerateExpandedSecretKey samples a fresh Ed25519 seed from crypto/rand
// and performs the standard SHA-512 expand-and-clamp.
func GenerateExpandedSecretKey() (ExpandedSecretKey, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return ExpandedSecretKey{}, fmt.Errorf("generate seed: %w", err)
	}
	return expandSeed(seed), nil
}

func expandSeed(seed []byte) ExpandedSecretKey {
	h := sha512.Sum512(seed)

	var scalar [32]byte
	copy(scalar[:], h[:32])
	scalar[0] &= 248
	scalar[31] &= 127
	scalar[31] |= 64

	var hashPrefix [32]byte
	copy(hashPrefix[:], h[32:])

	return ExpandedSecretKey{scalar: scalar, hashPrefix: hashPrefix}
}

// ToBytes serializes the expanded secret key to its 64-byte wire form
// (scalar || hash prefix), verbatim.
func (k ExpandedSecretKey) ToBytes() [64]byte {
	var out [64]byte
	copy(out[0:32], k.scalar[:])
	copy(out[32:64], k.hashPrefix[:])
	return out
}

// PublicKey derives the Ed25519 public key: scalar * basepoint.
//
// crypto/ed25519 doesn't expose scalar*basepoint on an already-clamped
// scalar (it always re-derives the scalar from a seed via SHA-512), so the
// multiplication is done directly with filippo.io/edwards25519.
func (k ExpandedSecretKey) PublicKey() (PublicKey, error) {
	s, err := edwards25519.NewScalar().SetBytesWithClamping(k.scalar[:])
	if err != nil {
		return PublicKey{}, fmt.Errorf("set scalar: %w", err)
	}
	point := new(edwards25519.Point).ScalarBaseMult(s)
	var pk PublicKey
	copy(pk.bytes[:], point.Bytes())
	return pk, nil
}

// PublicKey is a raw 32-byte Ed25519 compressed Edwards point.
type PublicKey struct {
	bytes [32]byte
}

// Bytes returns the raw 32-byte public key.
func (p PublicKey) Bytes() [32]byte { return p.bytes }

// Equal reports whether two public keys are byte-identical.
func (p PublicKey) Equal(other PublicKey) bool { return p.bytes == other.bytes }

// Hostname derives the v3 onion address: base32_lower(pubkey || checksum ||
// 0x03) + ".onion", where checksum = SHA3-256(".onion checksum" || pubkey ||
// 0x03)[:2].
func (p PublicKey) Hostname() Hostname {
	h := sha3.New256()
	h.Write([]byte(".onion checksum"))
	h.Write(p.bytes[:])
	h.Write([]byte{0x03})
	checksum := h.Sum(nil)[:2]

	data := make([]byte, 0, 32+2+1)
	data = append(data, p.bytes[:]...)
	data = append(data, checksum...)
	data = append(data, 0x03)

	address := strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(data))
	return Hostname(address + ".onion")
}

// Hostname is a parsed/validated ".onion" address.
type Hostname string

// String returns the hostname text.
func (h Hostname) String() string { return string(h) }

// ParseHostname trims trailing whitespace, requires a single "." splitting a
// 56-byte label from the "onion" TLD. It never verifies the 2-byte base32
// checksum embedded in the label — see DESIGN.md's Open Question log.
func ParseHostname(raw []byte) (Hostname, error) {
	s := strings.TrimRightFunc(string(raw), unicode.IsSpace)

	domain, tld, ok := strings.Cut(s, ".")
	if !ok {
		return "", parseErrorf("missing TLD")
	}
	if tld != "onion" {
		return "", parseErrorf("unsupported TLD: %s", tld)
	}
	if len(domain) != onionDomainLength {
		return "", parseErrorf("expected %d byte domain, found %d bytes", onionDomainLength, len(domain))
	}
	return Hostname(s), nil
}

// ParseSecretBlob parses an hs_ed25519_secret_key file: a 32-byte type-0
// version prefix followed by exactly 64 bytes of expanded secret key,
// stored verbatim (no clamping on parse — Tor already stores a clamped
// scalar).
func ParseSecretBlob(raw []byte) (ExpandedSecretKey, error) {
	if len(raw) < versionLength {
		return ExpandedSecretKey{}, parseErrorf("expected %d byte version, found %d bytes", versionLength, len(raw))
	}
	version, secret := raw[:versionLength], raw[versionLength:]
	if !bytesEqual(version, ed25519V1SecretTypeZeroKey) {
		return ExpandedSecretKey{}, parseErrorf("unrecognized version")
	}
	if len(secret) != ed25519V1SecretTypeZeroLen {
		return ExpandedSecretKey{}, parseErrorf("expected %d byte secret key, found %d bytes", ed25519V1SecretTypeZeroLen, len(secret))
	}

	var k ExpandedSecretKey
	copy(k.scalar[:], secret[0:32])
	copy(k.hashPrefix[:], secret[32:64])
	return k, nil
}

// SerializeSecretBlob renders the 32-byte type-0 version prefix followed by
// the 64-byte expanded secret key.
func SerializeSecretBlob(k ExpandedSecretKey) []byte {
	b := k.ToBytes()
	out := make([]byte, 0, versionLength+len(b))
	out = append(out, ed25519V1SecretTypeZeroKey...)
	out = append(out, b[:]...)
	return out
}

// ParsePublicBlob parses an hs_ed25519_public_key file: a 32-byte type-0
// version prefix followed by a valid 32-byte compressed Edwards point.
func ParsePublicBlob(raw []byte) (PublicKey, error) {
	if len(raw) < versionLength {
		return PublicKey{}, parseErrorf("expected %d byte version, found %d bytes", versionLength, len(raw))
	}
	version, public := raw[:versionLength], raw[versionLength:]
	if !bytesEqual(version, ed25519V1PublicTypeZeroKey) {
		return PublicKey{}, parseErrorf("unrecognized version")
	}
	if len(public) != ed25519V1PublicTypeZeroLen {
		return PublicKey{}, parseErrorf("expected %d byte public key, found %d bytes", ed25519V1PublicTypeZeroLen, len(public))
	}
	if _, err := new(edwards25519.Point).SetBytes(public); err != nil {
		return PublicKey{}, parseErrorf("invalid point: %v", err)
	}

	var pk PublicKey
	copy(pk.bytes[:], public)
	return pk, nil
}

// SerializePublicBlob renders the 32-byte type-0 version prefix followed by
// the 32-byte public key.
func SerializePublicBlob(p PublicKey) []byte {
	out := make([]byte, 0, versionLength+32)
	out = append(out, ed25519V1PublicTypeZeroKey...)
	b := p.bytes
	out = append(out, b[:]...)
	return out
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
