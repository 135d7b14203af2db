package controllers

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/klog/v2"

	torv1 "github.com/agabani/tor-operator/pkg/apis/tor/v1"
	kube "github.com/agabani/tor-operator/pkg/kubernetes"
	"github.com/agabani/tor-operator/pkg/metrics"
	"github.com/agabani/tor-operator/pkg/tor"
)

// onionKeyComponent is this kind's app.kubernetes.io/component label value
// and the controller name used for klog/metrics/the work queue.
const onionKeyComponent = "onion-key"

// OnionKeyController reconciles OnionKeys: for each one it ensures the
// named Secret holds a valid Ed25519 v3 onion key (generating or repairing
// parts of it when .spec.autoGenerate is set), and republishes the derived
// hostname to .status.
//
// Grounded on original_source/src/onion_key.rs's reconciler/generate_secret
// in full.
type OnionKeyController struct {
	clients    *Clients
	dispatcher *Dispatcher
}

// NewOnionKeyController builds the controller; start it by calling Run on
// its Dispatcher.
func NewOnionKeyController(clients *Clients) *OnionKeyController {
	c := &OnionKeyController{clients: clients}
	c.dispatcher = NewDispatcher(onionKeyComponent, c.reconcile)
	return c
}

// Dispatcher exposes the underlying dispatcher so main can Watch informers
// and call Run.
func (c *OnionKeyController) Dispatcher() *Dispatcher { return c.dispatcher }

func (c *OnionKeyController) reconcile(namespace, name string) error {
	stop := metrics.CountAndMeasure(onionKeyComponent)
	defer stop()
	klog.V(1).InfoS("reconciling", "controller", onionKeyComponent, "namespace", namespace, "name", name)

	ctx := context.Background()
	api := onionKeyAPI(c.clients, namespace)

	object, ok, err := api.GetOpt(ctx, name)
	if err != nil {
		metrics.ReconcileFailure(onionKeyComponent, "kube")
		return err
	}
	if !ok {
		return nil
	}

	labels, err := kube.TryLabels(onionKeyComponent, object)
	if err != nil {
		metrics.ReconcileFailure(onionKeyComponent, "missing object key")
		return err
	}
	annotations := kube.NewAnnotations()

	state, err := c.reconcileSecret(ctx, namespace, object, annotations, labels)
	if err != nil {
		metrics.ReconcileFailure(onionKeyComponent, "kube")
		return err
	}

	if err := c.reconcileStatus(ctx, api, object, state); err != nil {
		metrics.ReconcileFailure(onionKeyComponent, "kube")
		return err
	}

	klog.V(1).InfoS("reconciled", "controller", onionKeyComponent, "namespace", namespace, "name", name, "state", state.String())

	delay := 5 * time.Second
	if state.valid() {
		delay = time.Hour
	}
	c.dispatcher.EnqueueAfter(namespace, name, delay)
	return nil
}

// secretState mirrors original_source/src/onion_key.rs's SecretState enum:
// one active variant plus its Display impl, carrying enough to render
// .status.state and (only when valid) the resolved hostname.
type secretState struct {
	kind     string
	detail   error
	hostname tor.Hostname
}

func (s secretState) valid() bool { return s.kind == "valid" }

func (s secretState) String() string {
	switch s.kind {
	case "secret not found", "secret key not found", "public key not found", "public key mismatch",
		"hostname not found", "hostname mismatch", "valid":
		return s.kind
	case "secret key malformed", "public key malformed", "hostname malformed":
		return fmt.Sprintf("%s: %s", s.kind, s.detail)
	default:
		return s.kind
	}
}

func (c *OnionKeyController) reconcileSecret(ctx context.Context, namespace string, object *torv1.OnionKey, annotations kube.Annotations, labels kube.Labels) (secretState, error) {
	api := secretAPI(c.clients, namespace)

	secret, ok, err := api.GetOpt(ctx, object.Spec.Secret.Name)
	if err != nil {
		return secretState{}, err
	}

	state, desired := generateSecret(object, secret, ok, annotations, labels)
	if desired != nil && state.valid() {
		if _, err := api.Sync(ctx, object, map[string]*corev1.Secret{object.Spec.Secret.Name: desired}); err != nil {
			return secretState{}, err
		}
	}
	return state, nil
}

func (c *OnionKeyController) reconcileStatus(ctx context.Context, api *kube.Api[*torv1.OnionKey], object *torv1.OnionKey, state secretState) error {
	status := torv1.OnionKeyStatus{
		AutoGenerated: object.Spec.AutoGenerate != nil && *object.Spec.AutoGenerate,
		State:         state.String(),
	}
	if state.valid() {
		hostname := state.hostname.String()
		status.Hostname = &hostname
	}
	_, err := api.UpdateStatus(ctx, object, status, object.Status)
	return err
}

// autoGenerate reports whether the OnionKey controller is allowed to
// generate/repair key material, default false.
func autoGenerate(object *torv1.OnionKey) bool {
	return object.Spec.AutoGenerate != nil && *object.Spec.AutoGenerate
}

// generateSecret returns the resolved SecretState and, only when a change
// needs to be made (a missing/malformed part was (re)generated, or an
// auto-generated secret's labels/annotations drifted), the Secret to sync.
func generateSecret(object *torv1.OnionKey, secret *corev1.Secret, secretExists bool, annotations kube.Annotations, labels kube.Labels) (secretState, *corev1.Secret) {
	build := func(publicKey tor.PublicKey, secretKey tor.ExpandedSecretKey, hostname tor.Hostname) *corev1.Secret {
		return &corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{
				Name:        object.Spec.Secret.Name,
				Namespace:   object.Namespace,
				Annotations: annotations.Map(),
				Labels:      labels.Map(),
			},
			Data: map[string][]byte{
				"hostname":              []byte(hostname.String()),
				"hs_ed25519_public_key": tor.SerializePublicBlob(publicKey),
				"hs_ed25519_secret_key": tor.SerializeSecretBlob(secretKey),
			},
		}
	}

	generateFresh := func() (secretState, *corev1.Secret) {
		secretKey, err := tor.GenerateExpandedSecretKey()
		if err != nil {
			return secretState{kind: "secret key malformed", detail: err}, nil
		}
		publicKey, err := secretKey.PublicKey()
		if err != nil {
			return secretState{kind: "public key malformed", detail: err}, nil
		}
		hostname := publicKey.Hostname()
		out := build(publicKey, secretKey, hostname)
		stampOwnerOrPanic(out, object)
		return secretState{kind: "valid", hostname: hostname}, out
	}

	generate := autoGenerate(object)

	if !secretExists {
		if !generate {
			return secretState{kind: "secret not found"}, nil
		}
		return generateFresh()
	}

	secretKeyBytes, ok := secret.Data["hs_ed25519_secret_key"]
	if !ok {
		if !generate {
			return secretState{kind: "secret key not found"}, nil
		}
		return generateFresh()
	}
	secretKey, err := tor.ParseSecretBlob(secretKeyBytes)
	if err != nil {
		if !generate {
			return secretState{kind: "secret key malformed", detail: err}, nil
		}
		return generateFresh()
	}

	// From here on the secret key is sound and is kept: a missing, malformed
	// or mismatched public key or hostname is re-derived from it.
	rederive := func() (secretState, *corev1.Secret) {
		publicKey, err := secretKey.PublicKey()
		if err != nil {
			return secretState{kind: "public key malformed", detail: err}, nil
		}
		hostname := publicKey.Hostname()
		out := build(publicKey, secretKey, hostname)
		stampOwnerOrPanic(out, object)
		return secretState{kind: "valid", hostname: hostname}, out
	}

	publicKeyBytes, ok := secret.Data["hs_ed25519_public_key"]
	if !ok {
		if !generate {
			return secretState{kind: "public key not found"}, nil
		}
		return rederive()
	}
	publicKey, err := tor.ParsePublicBlob(publicKeyBytes)
	if err != nil {
		if !generate {
			return secretState{kind: "public key malformed", detail: err}, nil
		}
		return rederive()
	}
	expectedPublicKey, err := secretKey.PublicKey()
	if err != nil {
		return secretState{kind: "public key malformed", detail: err}, nil
	}
	if !publicKey.Equal(expectedPublicKey) {
		if !generate {
			return secretState{kind: "public key mismatch"}, nil
		}
		return rederive()
	}

	hostnameBytes, ok := secret.Data["hostname"]
	if !ok {
		if !generate {
			return secretState{kind: "hostname not found"}, nil
		}
		return rederive()
	}
	hostname, err := tor.ParseHostname(hostnameBytes)
	if err != nil {
		if !generate {
			return secretState{kind: "hostname malformed", detail: err}, nil
		}
		return rederive()
	}
	if hostname != publicKey.Hostname() {
		if !generate {
			return secretState{kind: "hostname mismatch"}, nil
		}
		return rederive()
	}

	if generate && (!kube.StringMapIsSubset(annotations.Map(), secret.Annotations) || !kube.StringMapIsSubset(labels.Map(), secret.Labels)) {
		out := build(publicKey, secretKey, hostname)
		stampOwnerOrPanic(out, object)
		return secretState{kind: "valid", hostname: hostname}, out
	}

	return secretState{kind: "valid", hostname: hostname}, nil
}
