package kubernetes

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// FieldManager is the fixed field manager name used for every server-side
// apply patch this operator issues, and the app.kubernetes.io/managed-by
// label value.
const FieldManager = AppKubernetesIOManagedByValue

// TryName returns obj's name, or a MissingObjectKeyError if the API server
// has not yet populated it.
func TryName(obj metav1.Object) (ResourceName, error) {
	if name := obj.GetName(); name != "" {
		return ResourceName(name), nil
	}
	return "", NewMissingObjectKeyError(".metadata.name")
}

// TryNamespace returns obj's namespace, or a MissingObjectKeyError.
func TryNamespace(obj metav1.Object) (string, error) {
	if ns := obj.GetNamespace(); ns != "" {
		return ns, nil
	}
	return "", NewMissingObjectKeyError(".metadata.namespace")
}

// TryUID returns obj's uid, or a MissingObjectKeyError.
func TryUID(obj metav1.Object) (string, error) {
	if uid := obj.GetUID(); uid != "" {
		return string(uid), nil
	}
	return "", NewMissingObjectKeyError(".metadata.uid")
}

// TryOwnedSelector returns the label selector string that lists every
// child owned by owner.
func TryOwnedSelector(owner metav1.Object) (string, error) {
	uid, err := TryUID(owner)
	if err != nil {
		return "", err
	}
	return OwnedBySelector(uid), nil
}

// TryLabels builds the full label set a child of owner, with the given
// component value, should carry.
func TryLabels(component string, owner metav1.Object) (Labels, error) {
	name, err := TryName(owner)
	if err != nil {
		return nil, err
	}
	uid, err := TryUID(owner)
	if err != nil {
		return nil, err
	}
	return NewLabels(component, name.String(), uid), nil
}

// TrySelectorLabels builds the selector label set for a child of owner with
// the given component value.
func TrySelectorLabels(component string, owner metav1.Object) (SelectorLabels, error) {
	name, err := TryName(owner)
	if err != nil {
		return nil, err
	}
	return NewSelectorLabels(component, name.String()), nil
}

// StampOwner sets child's controller owner reference to owner (typed by
// gvk) and records owner's uid under the owned-by label, so a later
// TryOwnedSelector(owner) lists child back. Mirrors Resource::try_with_owner.
func StampOwner(child, owner metav1.Object, gvk schema.GroupVersionKind) error {
	uid, err := TryUID(owner)
	if err != nil {
		return err
	}

	blockOwnerDeletion := true
	isController := true
	child.SetOwnerReferences([]metav1.OwnerReference{{
		APIVersion:         gvk.GroupVersion().String(),
		Kind:               gvk.Kind,
		Name:               owner.GetName(),
		UID:                owner.GetUID(),
		BlockOwnerDeletion: &blockOwnerDeletion,
		Controller:         &isController,
	}})

	labels := child.GetLabels()
	if labels == nil {
		labels = map[string]string{}
	}
	labels[TorAgabaniCoUkOwnedByKey] = uid
	child.SetLabels(labels)

	return nil
}
