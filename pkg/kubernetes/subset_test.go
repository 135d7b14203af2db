package kubernetes

import (
	"testing"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	torv1 "github.com/agabani/tor-operator/pkg/apis/tor/v1"
)

func TestStringMapIsSubset(t *testing.T) {
	superset := map[string]string{"a": "1", "b": "2"}

	if !StringMapIsSubset(map[string]string{"a": "1"}, superset) {
		t.Fatalf("expected subset")
	}
	if !StringMapIsSubset(nil, superset) {
		t.Fatalf("nil subset is a subset of anything")
	}
	if StringMapIsSubset(map[string]string{"a": "changed"}, superset) {
		t.Fatalf("differing value must not be a subset")
	}
	if StringMapIsSubset(map[string]string{"c": "3"}, superset) {
		t.Fatalf("missing key must not be a subset")
	}
}

func TestObjectMetaIsSubset_ToleratesExtraAnnotations(t *testing.T) {
	subset := metav1.ObjectMeta{
		Name:        "x",
		Annotations: map[string]string{"tor.agabani.co.uk/torrc-hash": "sha256:abc"},
		Labels:      map[string]string{"app.kubernetes.io/name": "tor"},
	}
	superset := metav1.ObjectMeta{
		Name: "x",
		Annotations: map[string]string{
			"tor.agabani.co.uk/torrc-hash":  "sha256:abc",
			"kubectl.kubernetes.io/applied": "something-else",
		},
		Labels: map[string]string{"app.kubernetes.io/name": "tor"},
	}

	if !ObjectMetaIsSubset(subset, superset) {
		t.Fatalf("expected subset despite superset carrying extra annotations")
	}
}

func TestObjectMetaIsSubset_DetectsNameChange(t *testing.T) {
	subset := metav1.ObjectMeta{Name: "x"}
	superset := metav1.ObjectMeta{Name: "y"}
	if ObjectMetaIsSubset(subset, superset) {
		t.Fatalf("differing name must not be a subset")
	}
}

func TestDeploymentSpecIsSubset_TruesThroughServerDefaults(t *testing.T) {
	replicas := int32(1)
	base := appsv1.DeploymentSpec{
		Replicas: &replicas,
		Template: corev1.PodTemplateSpec{
			Spec: corev1.PodSpec{
				Containers: []corev1.Container{{Name: "tor", Image: "tor:latest"}},
			},
		},
	}

	// The API server fills in these fields on the stored object; a fresh
	// desired spec (with none of them set) must still compare equal.
	defaulted := *base.DeepCopy()
	defaulted.Template.Spec.Containers[0].Resources = corev1.ResourceRequirements{
		Limits: corev1.ResourceList{"cpu": resource.MustParse("100m")},
	}
	defaulted.Template.Spec.Containers[0].TerminationMessagePath = "/dev/termination-log"
	defaulted.Template.Spec.Containers[0].TerminationMessagePolicy = corev1.TerminationMessageReadFile

	if !DeploymentSpecIsSubset(base, defaulted) {
		t.Fatalf("expected subset after normalizing server-defaulted fields")
	}
}

func TestDeploymentSpecIsSubset_DetectsRealDifference(t *testing.T) {
	base := appsv1.DeploymentSpec{
		Template: corev1.PodTemplateSpec{
			Spec: corev1.PodSpec{Containers: []corev1.Container{{Name: "tor", Image: "tor:v1"}}},
		},
	}
	changed := *base.DeepCopy()
	changed.Template.Spec.Containers[0].Image = "tor:v2"

	if DeploymentSpecIsSubset(base, changed) {
		t.Fatalf("differing image must not be a subset")
	}
}

func TestByteMapIsSubset(t *testing.T) {
	superset := map[string][]byte{"hostname": []byte("abc.onion")}

	if !ByteMapIsSubset(map[string][]byte{"hostname": []byte("abc.onion")}, superset) {
		t.Fatalf("expected subset")
	}
	if ByteMapIsSubset(map[string][]byte{"hostname": []byte("changed.onion")}, superset) {
		t.Fatalf("differing value must not be a subset")
	}
}

func TestSecretIsSubset(t *testing.T) {
	superset := corev1.Secret{Data: map[string][]byte{"hostname": []byte("abc.onion"), "hs_ed25519_secret_key": []byte("extra")}}

	if !SecretIsSubset(corev1.Secret{Data: map[string][]byte{"hostname": []byte("abc.onion")}}, superset) {
		t.Fatalf("expected subset")
	}
	if SecretIsSubset(corev1.Secret{Data: map[string][]byte{"hostname": []byte("changed")}}, superset) {
		t.Fatalf("differing value must not be a subset")
	}
}

func TestConfigMapIsSubset(t *testing.T) {
	superset := corev1.ConfigMap{Data: map[string]string{"torrc": "SocksPort 0.0.0.0:9050"}}

	if !ConfigMapIsSubset(corev1.ConfigMap{Data: map[string]string{"torrc": "SocksPort 0.0.0.0:9050"}}, superset) {
		t.Fatalf("expected subset")
	}
	if ConfigMapIsSubset(corev1.ConfigMap{Data: map[string]string{"torrc": "changed"}}, superset) {
		t.Fatalf("differing value must not be a subset")
	}
}

func TestOnionKeySpecIsSubset(t *testing.T) {
	name := "key"
	base := torv1.OnionKeySpec{Secret: torv1.OnionKeySpecSecret{Name: name}}
	changed := torv1.OnionKeySpec{Secret: torv1.OnionKeySpecSecret{Name: "other"}}

	if !OnionKeySpecIsSubset(base, base) {
		t.Fatalf("expected equal specs to be a subset")
	}
	if OnionKeySpecIsSubset(base, changed) {
		t.Fatalf("differing spec must not be a subset")
	}
}
