package kubernetes

import (
	"bytes"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/google/go-cmp/cmp"

	torv1 "github.com/agabani/tor-operator/pkg/apis/tor/v1"
)

// StringMapIsSubset reports whether every key/value pair in subset is
// present, unchanged, in superset. A nil subset is a subset of anything; a
// nil superset is only a superset of an empty or nil subset.
func StringMapIsSubset(subset, superset map[string]string) bool {
	for k, v := range subset {
		if sv, ok := superset[k]; !ok || sv != v {
			return false
		}
	}
	return true
}

// ObjectMetaIsSubset reports whether subset's server-managed fields
// (annotations, labels, name, owner references) already appear, unchanged,
// in superset. It tolerates superset carrying additional annotations/labels
// the API server or another controller has added, since server-side apply
// only asserts ownership of the fields this operator actually sets.
func ObjectMetaIsSubset(subset, superset metav1.ObjectMeta) bool {
	if subset.Name != superset.Name {
		return false
	}
	if !StringMapIsSubset(subset.Annotations, superset.Annotations) {
		return false
	}
	if !StringMapIsSubset(subset.Labels, superset.Labels) {
		return false
	}
	return cmp.Equal(subset.OwnerReferences, superset.OwnerReferences)
}

// HorizontalPodAutoscalerSpecIsSubset reports exact equality: the
// autoscaling/v2 API has no comparable server-side defaulting quirk for the
// fields this operator sets, so no normalization is needed.
func HorizontalPodAutoscalerSpecIsSubset(subset, superset autoscalingv2.HorizontalPodAutoscalerSpec) bool {
	return cmp.Equal(subset, superset)
}

// ServiceSpecIsSubset compares the fields this operator owns (ports, type,
// selector) and ignores server-assigned fields such as ClusterIP.
func ServiceSpecIsSubset(subset, superset corev1.ServiceSpec) bool {
	if subset.Type != "" && subset.Type != superset.Type {
		return false
	}
	if !StringMapIsSubset(subset.Selector, superset.Selector) {
		return false
	}
	return cmp.Equal(subset.Ports, superset.Ports)
}

// DeploymentSpecIsSubset reports whether subset matches superset closely
// enough that no patch is needed. replicas, selector and the pod template's
// metadata must match exactly; the pod template spec is compared after
// stripping fields the API server defaults on every container
// (resources, terminationMessagePath, terminationMessagePolicy), so a
// reconcile loop doesn't fight the server's own defaulting forever.
func DeploymentSpecIsSubset(subset, superset appsv1.DeploymentSpec) bool {
	if subset.Replicas != nil && superset.Replicas != nil && *subset.Replicas != *superset.Replicas {
		return false
	}
	if (subset.Replicas == nil) != (superset.Replicas == nil) {
		return false
	}

	if !cmp.Equal(subset.Selector, superset.Selector) {
		return false
	}

	if !cmp.Equal(subset.Template.ObjectMeta, superset.Template.ObjectMeta) {
		return false
	}

	return cmp.Equal(normalizePodSpec(subset.Template.Spec), normalizePodSpec(superset.Template.Spec))
}

// normalizePodSpec zeroes the fields the Kubernetes API server fills in
// with defaults the operator never sets explicitly, so that comparing a
// freshly-generated spec against one read back from the cluster doesn't
// spuriously report a difference.
func normalizePodSpec(spec corev1.PodSpec) corev1.PodSpec {
	normalized := *spec.DeepCopy()
	for i := range normalized.Containers {
		normalizeContainer(&normalized.Containers[i])
	}
	for i := range normalized.InitContainers {
		normalizeContainer(&normalized.InitContainers[i])
	}
	return normalized
}

func normalizeContainer(c *corev1.Container) {
	c.Resources = corev1.ResourceRequirements{}
	c.TerminationMessagePath = ""
	c.TerminationMessagePolicy = ""
}

// ByteMapIsSubset is StringMapIsSubset's counterpart for []byte-valued maps,
// namely corev1.Secret's Data.
func ByteMapIsSubset(subset, superset map[string][]byte) bool {
	for k, v := range subset {
		sv, ok := superset[k]
		if !ok || !bytes.Equal(sv, v) {
			return false
		}
	}
	return true
}

// SecretIsSubset reports whether subset's Data already matches, unchanged,
// in superset.
func SecretIsSubset(subset, superset corev1.Secret) bool {
	return ByteMapIsSubset(subset.Data, superset.Data)
}

// ConfigMapIsSubset reports whether subset's Data already matches,
// unchanged, in superset.
func ConfigMapIsSubset(subset, superset corev1.ConfigMap) bool {
	return StringMapIsSubset(subset.Data, superset.Data)
}

// OnionKeySpecIsSubset reports exact equality: the CRD's spec has no
// server-side defaulting to normalize away.
func OnionKeySpecIsSubset(subset, superset torv1.OnionKeySpec) bool {
	return cmp.Equal(subset, superset)
}

// OnionServiceSpecIsSubset reports exact equality, for the same reason as
// OnionKeySpecIsSubset.
func OnionServiceSpecIsSubset(subset, superset torv1.OnionServiceSpec) bool {
	return cmp.Equal(subset, superset)
}

// OnionBalanceSpecIsSubset reports exact equality, for the same reason as
// OnionKeySpecIsSubset.
func OnionBalanceSpecIsSubset(subset, superset torv1.OnionBalanceSpec) bool {
	return cmp.Equal(subset, superset)
}

// TorIngressSpecIsSubset reports exact equality, for the same reason as
// OnionKeySpecIsSubset.
func TorIngressSpecIsSubset(subset, superset torv1.TorIngressSpec) bool {
	return cmp.Equal(subset, superset)
}

// TorProxySpecIsSubset reports exact equality, for the same reason as
// OnionKeySpecIsSubset.
func TorProxySpecIsSubset(subset, superset torv1.TorProxySpec) bool {
	return cmp.Equal(subset, superset)
}

// UnstructuredIsSubset reports whether every field in subset is present,
// unchanged, in superset, comparing top-level fields with cmp.Equal.
func UnstructuredIsSubset(subset, superset *unstructured.Unstructured) bool {
	for k, v := range subset.Object {
		sv, ok := superset.Object[k]
		if !ok || !cmp.Equal(v, sv) {
			return false
		}
	}
	return true
}
