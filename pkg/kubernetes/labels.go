package kubernetes

import "k8s.io/apimachinery/pkg/labels"

// Standard label keys/values stamped onto every object this operator
// manages, plus the operator's own ownership marker.
const (
	AppKubernetesIOComponentKey = "app.kubernetes.io/component"
	AppKubernetesIOInstanceKey  = "app.kubernetes.io/instance"
	AppKubernetesIOManagedByKey = "app.kubernetes.io/managed-by"
	AppKubernetesIOManagedByValue = "tor-operator"
	AppKubernetesIONameKey      = "app.kubernetes.io/name"
	AppKubernetesIONameValue    = "tor"

	TorAgabaniCoUkConfigHashKey    = "tor.agabani.co.uk/config-hash"
	TorAgabaniCoUkOwnedByKey       = "tor.agabani.co.uk/owned-by"
	TorAgabaniCoUkPartOfKey        = "tor.agabani.co.uk/part-of"
	TorAgabaniCoUkTorrcHashKey     = "tor.agabani.co.uk/torrc-hash"
	TorAgabaniCoUkOBConfigHashKey  = "tor.agabani.co.uk/ob-config-hash"
	TorAgabaniCoUkConfigYamlHashKey = "tor.agabani.co.uk/config-yaml-hash"
)

// Labels is the full label set stamped onto a child object: component,
// instance, managed-by, name and owned-by.
type Labels map[string]string

// SelectorLabels is the subset of Labels stable enough to use as a pod/
// deployment selector: component, instance and name. It deliberately
// excludes owned-by so a rolling upgrade of the owner's UID never forces a
// selector change (selectors are immutable on Deployments).
type SelectorLabels map[string]string

// NewSelectorLabels builds the selector labels for an object of the given
// component (e.g. "onion-service") and instance name.
func NewSelectorLabels(component, instance string) SelectorLabels {
	return SelectorLabels{
		AppKubernetesIOComponentKey: component,
		AppKubernetesIOInstanceKey:  instance,
		AppKubernetesIONameKey:      AppKubernetesIONameValue,
	}
}

// Map returns the labels as a plain map, suitable for ObjectMeta.Labels or
// a LabelSelector's MatchLabels.
func (s SelectorLabels) Map() map[string]string { return map[string]string(s) }

// String renders the selector labels as a label-selector query string
// ("k=v,k=v"), for a /scale subresource's .status.labelSelector field.
func (s SelectorLabels) String() string { return labels.Set(s.Map()).String() }

// NewLabels builds the full label set for an object of the given component,
// instance name and owner UID, by extending its selector labels with
// managed-by and owned-by.
func NewLabels(component, instance, ownerUID string) Labels {
	l := Labels{
		AppKubernetesIOManagedByKey: AppKubernetesIOManagedByValue,
		TorAgabaniCoUkOwnedByKey:    ownerUID,
	}
	for k, v := range NewSelectorLabels(component, instance) {
		l[k] = v
	}
	return l
}

// Map returns the labels as a plain map, suitable for ObjectMeta.Labels.
func (l Labels) Map() map[string]string { return map[string]string(l) }

// OwnedBySelector returns the label selector string ("key=uid") used to
// list every child owned by the object with the given UID.
func OwnedBySelector(ownerUID string) string {
	return TorAgabaniCoUkOwnedByKey + "=" + ownerUID
}
