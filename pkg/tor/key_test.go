package tor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fixture bytes below are the literal auto-generated test-vector bytes from
// the original implementation's tor/mod.rs embedded test ("auto_generated"
// fixture), used to ground the parse/derive chain in a known-good vector
// rather than only property-based assertions.
var fixtureExpandedSecret = [64]byte{
	88, 236, 169, 104, 35, 16, 225, 104, 131, 154, 122, 30, 191, 39, 112, 17, 224, 172,
	15, 86, 126, 204, 212, 127, 113, 239, 122, 27, 190, 146, 5, 118, 177, 88, 175, 88,
	62, 23, 143, 214, 221, 112, 253, 240, 55, 105, 247, 18, 140, 111, 103, 97, 207,
	188, 174, 62, 122, 124, 51, 184, 166, 59, 218, 13,
}

var fixturePublicKey = [32]byte{
	243, 245, 51, 158, 27, 175, 158, 33, 137, 180, 184, 102, 68, 94, 90, 238, 168, 137,
	84, 120, 11, 125, 66, 179, 30, 37, 117, 186, 194, 111, 12, 255,
}

func fixtureExpandedSecretKey() ExpandedSecretKey {
	var k ExpandedSecretKey
	copy(k.scalar[:], fixtureExpandedSecret[0:32])
	copy(k.hashPrefix[:], fixtureExpandedSecret[32:64])
	return k
}

func TestParseSecretBlob_Fixture(t *testing.T) {
	blob := SerializeSecretBlob(fixtureExpandedSecretKey())

	k, err := ParseSecretBlob(blob)
	if err != nil {
		t.Fatalf("ParseSecretBlob: %v", err)
	}
	if got := k.ToBytes(); got != fixtureExpandedSecret {
		t.Fatalf("ToBytes mismatch: got %v want %v", got, fixtureExpandedSecret)
	}
}

func TestSecretBlob_RoundTrip(t *testing.T) {
	k := fixtureExpandedSecretKey()
	blob := SerializeSecretBlob(k)

	parsed, err := ParseSecretBlob(blob)
	if err != nil {
		t.Fatalf("ParseSecretBlob: %v", err)
	}
	if !cmp.Equal(parsed, k, cmp.AllowUnexported(ExpandedSecretKey{})) {
		t.Fatalf("round trip mismatch")
	}
	if !cmp.Equal(blob, SerializeSecretBlob(parsed)) {
		t.Fatalf("serialize(parse(serialize(k))) != serialize(k)")
	}
}

func TestDerivePublicKey_Fixture(t *testing.T) {
	k := fixtureExpandedSecretKey()

	pub, err := k.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey: %v", err)
	}
	if got := pub.Bytes(); got != fixturePublicKey {
		t.Fatalf("derived public key mismatch: got %v want %v", got, fixturePublicKey)
	}
}

func TestPublicBlob_RoundTrip(t *testing.T) {
	var pk PublicKey
	copy(pk.bytes[:], fixturePublicKey[:])

	blob := SerializePublicBlob(pk)
	parsed, err := ParsePublicBlob(blob)
	if err != nil {
		t.Fatalf("ParsePublicBlob: %v", err)
	}
	if !parsed.Equal(pk) {
		t.Fatalf("round trip mismatch")
	}
}

func TestParseSecretBlob_WrongVersion(t *testing.T) {
	blob := make([]byte, 32+64)
	copy(blob, []byte("not a recognized version marker"))

	if _, err := ParseSecretBlob(blob); err == nil {
		t.Fatalf("expected error for unrecognized version")
	}
}

func TestParseSecretBlob_ShortInput(t *testing.T) {
	if _, err := ParseSecretBlob([]byte("short")); err == nil {
		t.Fatalf("expected error for short input")
	}
}

func TestHostname_DerivationAndRoundTrip(t *testing.T) {
	var pk PublicKey
	copy(pk.bytes[:], fixturePublicKey[:])

	hostname := pk.Hostname()

	if !strHasSuffix(hostname.String(), ".onion") {
		t.Fatalf("hostname %q does not end in .onion", hostname)
	}
	if len(hostname.String()) != 62 {
		t.Fatalf("hostname %q has length %d, want 62", hostname, len(hostname.String()))
	}

	parsed, err := ParseHostname([]byte(hostname.String() + "\n"))
	if err != nil {
		t.Fatalf("ParseHostname: %v", err)
	}
	if parsed != hostname {
		t.Fatalf("parse(serialize(hostname)) = %q, want %q", parsed, hostname)
	}

	// Determinism: re-deriving from the same public key must be stable.
	if pk.Hostname() != hostname {
		t.Fatalf("hostname derivation is not deterministic")
	}
}

func TestParseHostname_RejectsBadTLD(t *testing.T) {
	label := make([]byte, 56)
	for i := range label {
		label[i] = 'a'
	}
	if _, err := ParseHostname(append(label, []byte(".com")...)); err == nil {
		t.Fatalf("expected error for non-onion TLD")
	}
}

func TestParseHostname_RejectsWrongLength(t *testing.T) {
	if _, err := ParseHostname([]byte("short.onion")); err == nil {
		t.Fatalf("expected error for wrong-length domain")
	}
}

func TestGenerateExpandedSecretKey_ProducesValidHostname(t *testing.T) {
	k, err := GenerateExpandedSecretKey()
	if err != nil {
		t.Fatalf("GenerateExpandedSecretKey: %v", err)
	}
	pub, err := k.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey: %v", err)
	}
	hostname := pub.Hostname()
	if _, err := ParseHostname([]byte(hostname.String())); err != nil {
		t.Fatalf("generated hostname failed to parse: %v", err)
	}

	// Round trip through the secret blob format.
	blob := SerializeSecretBlob(k)
	parsed, err := ParseSecretBlob(blob)
	if err != nil {
		t.Fatalf("ParseSecretBlob: %v", err)
	}
	if parsed.ToBytes() != k.ToBytes() {
		t.Fatalf("generated key did not round trip")
	}
}

func strHasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
