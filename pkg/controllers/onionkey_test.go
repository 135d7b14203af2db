package controllers

import (
	"strings"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	torv1 "github.com/agabani/tor-operator/pkg/apis/tor/v1"
	kube "github.com/agabani/tor-operator/pkg/kubernetes"
	"github.com/agabani/tor-operator/pkg/tor"
)

func newOnionKey(name string, autoGenerate bool) *torv1.OnionKey {
	return &torv1.OnionKey{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "default",
			UID:       "11111111-1111-1111-1111-111111111111",
		},
		Spec: torv1.OnionKeySpec{
			AutoGenerate: &autoGenerate,
			Secret:       torv1.OnionKeySpecSecret{Name: name},
		},
	}
}

func newValidSecret(t *testing.T) (*corev1.Secret, tor.Hostname) {
	t.Helper()
	secretKey, err := tor.GenerateExpandedSecretKey()
	if err != nil {
		t.Fatalf("GenerateExpandedSecretKey: %v", err)
	}
	publicKey, err := secretKey.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey: %v", err)
	}
	hostname := publicKey.Hostname()
	return &corev1.Secret{
		Data: map[string][]byte{
			"hostname":              []byte(hostname.String()),
			"hs_ed25519_public_key": tor.SerializePublicBlob(publicKey),
			"hs_ed25519_secret_key": tor.SerializeSecretBlob(secretKey),
		},
	}, hostname
}

func TestGenerateSecret_MissingSecretAutoGenerateFalse(t *testing.T) {
	object := newOnionKey("onion", false)

	state, desired := generateSecret(object, nil, false, kube.NewAnnotations(), kube.Labels{})

	if state.kind != "secret not found" {
		t.Fatalf("state = %q, want %q", state.kind, "secret not found")
	}
	if desired != nil {
		t.Fatalf("desired = %+v, want nil", desired)
	}
}

func TestGenerateSecret_MissingSecretAutoGenerateTrue(t *testing.T) {
	object := newOnionKey("onion", true)

	state, desired := generateSecret(object, nil, false, kube.NewAnnotations(), kube.Labels{})

	if !state.valid() {
		t.Fatalf("state = %q, want valid", state.kind)
	}
	if desired == nil {
		t.Fatalf("desired = nil, want generated Secret")
	}
	if desired.Name != "onion" || desired.Namespace != "default" {
		t.Fatalf("desired metadata = %+v", desired.ObjectMeta)
	}
	if !strings.HasSuffix(state.hostname.String(), ".onion") {
		t.Fatalf("hostname = %q, want .onion suffix", state.hostname)
	}
	if len(desired.OwnerReferences) != 1 || desired.OwnerReferences[0].Name != "onion" {
		t.Fatalf("owner references = %+v, want a single reference to the OnionKey", desired.OwnerReferences)
	}
}

func TestGenerateSecret_ValidSecretIsLeftAlone(t *testing.T) {
	object := newOnionKey("onion", false)
	secret, hostname := newValidSecret(t)

	state, desired := generateSecret(object, secret, true, kube.NewAnnotations(), kube.Labels{})

	if !state.valid() {
		t.Fatalf("state = %q, want valid", state.kind)
	}
	if state.hostname != hostname {
		t.Fatalf("hostname = %q, want %q", state.hostname, hostname)
	}
	if desired != nil {
		t.Fatalf("desired = %+v, want nil (no change needed)", desired)
	}
}

func TestGenerateSecret_MissingSecretKeyWithoutAutoGenerateSurfacesState(t *testing.T) {
	object := newOnionKey("onion", false)
	secret, _ := newValidSecret(t)
	delete(secret.Data, "hs_ed25519_secret_key")

	state, desired := generateSecret(object, secret, true, kube.NewAnnotations(), kube.Labels{})

	if state.kind != "secret key not found" {
		t.Fatalf("state = %q, want %q", state.kind, "secret key not found")
	}
	if desired != nil {
		t.Fatalf("desired = %+v, want nil", desired)
	}
}

func TestGenerateSecret_MalformedSecretKeyRegeneratesWhenAutoGenerate(t *testing.T) {
	object := newOnionKey("onion", true)
	secret, _ := newValidSecret(t)
	secret.Data["hs_ed25519_secret_key"] = []byte("not a valid blob")

	state, desired := generateSecret(object, secret, true, kube.NewAnnotations(), kube.Labels{})

	if !state.valid() {
		t.Fatalf("state = %q, want valid (regenerated)", state.kind)
	}
	if desired == nil {
		t.Fatalf("desired = nil, want a freshly generated Secret")
	}
}

func TestGenerateSecret_PublicKeyMismatchWithoutAutoGenerate(t *testing.T) {
	object := newOnionKey("onion", false)
	secret, _ := newValidSecret(t)

	other, err := tor.GenerateExpandedSecretKey()
	if err != nil {
		t.Fatalf("GenerateExpandedSecretKey: %v", err)
	}
	otherPublic, err := other.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey: %v", err)
	}
	secret.Data["hs_ed25519_public_key"] = tor.SerializePublicBlob(otherPublic)

	state, desired := generateSecret(object, secret, true, kube.NewAnnotations(), kube.Labels{})

	if state.kind != "public key mismatch" {
		t.Fatalf("state = %q, want %q", state.kind, "public key mismatch")
	}
	if desired != nil {
		t.Fatalf("desired = %+v, want nil", desired)
	}
}

func TestGenerateSecret_HostnameMismatchWithoutAutoGenerate(t *testing.T) {
	object := newOnionKey("onion", false)
	secret, _ := newValidSecret(t)
	secret.Data["hostname"] = []byte(strings.Repeat("a", 56) + ".onion")

	state, desired := generateSecret(object, secret, true, kube.NewAnnotations(), kube.Labels{})

	if state.kind != "hostname mismatch" {
		t.Fatalf("state = %q, want %q", state.kind, "hostname mismatch")
	}
	if desired != nil {
		t.Fatalf("desired = %+v, want nil", desired)
	}
}

func TestGenerateSecret_DriftingLabelsResyncWhenAutoGenerate(t *testing.T) {
	object := newOnionKey("onion", true)
	secret, hostname := newValidSecret(t)

	labels := kube.Labels{"custom": "value"}
	state, desired := generateSecret(object, secret, true, kube.NewAnnotations(), labels)

	if !state.valid() || state.hostname != hostname {
		t.Fatalf("state = %+v, want valid with hostname %q", state, hostname)
	}
	if desired == nil {
		t.Fatalf("desired = nil, want a resynced Secret carrying the new labels")
	}
	if desired.Labels["custom"] != "value" {
		t.Fatalf("desired labels = %+v, want custom=value", desired.Labels)
	}
}

func TestGenerateSecret_NoResyncWhenSecretLabelsAlreadyMatch(t *testing.T) {
	object := newOnionKey("onion", true)
	secret, hostname := newValidSecret(t)
	secret.Labels = map[string]string{"custom": "value"}

	labels := kube.Labels{"custom": "value"}
	state, desired := generateSecret(object, secret, true, kube.NewAnnotations(), labels)

	if !state.valid() || state.hostname != hostname {
		t.Fatalf("state = %+v, want valid with hostname %q", state, hostname)
	}
	if desired != nil {
		t.Fatalf("desired = %+v, want nil: secret already carries the expected labels", desired)
	}
}

func TestSecretState_String(t *testing.T) {
	tests := []struct {
		state secretState
		want  string
	}{
		{secretState{kind: "secret not found"}, "secret not found"},
		{secretState{kind: "valid"}, "valid"},
		{secretState{kind: "secret key malformed", detail: errParseFixture}, "secret key malformed: fixture"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

var errParseFixture = fixtureError{}

type fixtureError struct{}

func (fixtureError) Error() string { return "fixture" }
