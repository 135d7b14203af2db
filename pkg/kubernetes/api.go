package kubernetes

import (
	"context"
	"encoding/json"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/google/go-cmp/cmp"
	"k8s.io/klog/v2"
)

// ResourceClient is the typed CRUD surface Api[R] drives to reach the API
// server for a single kind. The concrete client transport — a generated
// clientset's <Kind>Interface, or a fake for tests — is assumed available
// and is out of scope for this package; ResourceClient only names the
// operations Api[R] needs from it.
type ResourceClient[R metav1.Object] interface {
	Get(ctx context.Context, name string, opts metav1.GetOptions) (R, error)
	List(ctx context.Context, opts metav1.ListOptions) ([]R, error)
	Patch(ctx context.Context, name string, pt types.PatchType, data []byte, opts metav1.PatchOptions, subresources ...string) (R, error)
	Delete(ctx context.Context, name string, opts metav1.DeleteOptions) error
}

// Api is a generic sync engine over a single owned resource kind R,
// providing the get/list/patch/delete primitives every controller composes
// its reconcile loop from. It generalizes the original implementation's
// Api<R> to Go generics: server-side apply for desired-state patches, a
// label-selector scoped list for discovering a parent's children, and a
// patch-then-list "sync" that reconciles a whole owned set (including
// deleting strays) in one call.
type Api[R metav1.Object] struct {
	client   ResourceClient[R]
	isSubset func(desired, observed R) bool
}

// NewApi wraps a typed resource client. isSubset reports whether desired's
// patchable fields (metadata and spec/data) already appear, unchanged, in
// observed; Patch consults it before ever calling through to the server, so
// that a repeat Sync/Update with the same desired state issues zero patches.
func NewApi[R metav1.Object](client ResourceClient[R], isSubset func(desired, observed R) bool) *Api[R] {
	return &Api[R]{client: client, isSubset: isSubset}
}

// GetOpt returns the named resource, or ok=false if it does not exist.
func (a *Api[R]) GetOpt(ctx context.Context, name string) (resource R, ok bool, err error) {
	r, err := a.client.Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return resource, false, nil
	}
	if err != nil {
		return resource, false, err
	}
	return r, true, nil
}

// List returns every resource matching the given label selector.
func (a *Api[R]) List(ctx context.Context, labelSelector string) ([]R, error) {
	return a.client.List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
}

// ListOwnedBy returns every resource owned by owner, via the owned-by label.
func (a *Api[R]) ListOwnedBy(ctx context.Context, owner metav1.Object) ([]R, error) {
	selector, err := TryOwnedSelector(owner)
	if err != nil {
		return nil, err
	}
	return a.List(ctx, selector)
}

// Patch applies resource as the desired state via server-side apply, forcing
// ownership of the fields it sets under the operator's fixed field manager.
// It first gets the current object and skips the apply entirely when
// resource is already a subset of it, so a follow-up call with the same
// desired state is a no-op.
func (a *Api[R]) Patch(ctx context.Context, resource R) (R, error) {
	var zero R
	name := resource.GetName()

	observed, ok, err := a.GetOpt(ctx, name)
	if err != nil {
		return zero, err
	}
	if ok && a.isSubset(resource, observed) {
		return observed, nil
	}

	data, err := json.Marshal(resource)
	if err != nil {
		return zero, fmt.Errorf("marshal %T %q: %w", resource, name, err)
	}

	force := true
	patched, err := a.client.Patch(ctx, name, types.ApplyPatchType, data, metav1.PatchOptions{
		FieldManager: FieldManager,
		Force:        &force,
	})
	if err != nil {
		return zero, fmt.Errorf("patch %T %q: %w", resource, name, err)
	}

	klog.V(1).InfoS("patched resource", "kind", fmt.Sprintf("%T", resource), "name", name, "namespace", patched.GetNamespace())
	return patched, nil
}

// PatchStatus merge-patches resource's status subresource to status.
func (a *Api[R]) PatchStatus(ctx context.Context, resource R, status any) (R, error) {
	var zero R
	data, err := json.Marshal(map[string]any{"status": status})
	if err != nil {
		return zero, fmt.Errorf("marshal status for %T %q: %w", resource, resource.GetName(), err)
	}

	patched, err := a.client.Patch(ctx, resource.GetName(), types.MergePatchType, data, metav1.PatchOptions{
		FieldManager: FieldManager,
	}, "status")
	if err != nil {
		return zero, fmt.Errorf("patch status of %T %q: %w", resource, resource.GetName(), err)
	}
	return patched, nil
}

// UpdateStatus patches resource's status to newStatus only if it differs
// from oldStatus, avoiding a no-op write (and the resulting resourceVersion
// churn) every reconcile.
func (a *Api[R]) UpdateStatus(ctx context.Context, resource R, newStatus, oldStatus any) (R, error) {
	if cmp.Equal(newStatus, oldStatus) {
		return resource, nil
	}
	return a.PatchStatus(ctx, resource, newStatus)
}

// Delete deletes the named resource, treating a prior deletion as success.
func (a *Api[R]) Delete(ctx context.Context, name string) error {
	err := a.client.Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	return nil
}

// DeleteMany deletes every resource in resources.
func (a *Api[R]) DeleteMany(ctx context.Context, resources []R) error {
	for _, r := range resources {
		if err := a.Delete(ctx, r.GetName()); err != nil {
			return err
		}
		klog.V(1).InfoS("deleted stray resource", "kind", fmt.Sprintf("%T", r), "name", r.GetName())
	}
	return nil
}

// Update patches every resource in desired (keyed by a caller-chosen
// identifier, e.g. an instance ordinal) and lists every resource owned by
// owner, returning the patched resources alongside any owned resource that
// is no longer desired. It does not delete anything itself: callers that
// need N children to converge before removing strays (a two-phase plan)
// call Update first and DeleteMany only once it is safe to do so; callers
// that can delete immediately use Sync instead.
func (a *Api[R]) Update(ctx context.Context, owner metav1.Object, desired map[string]R) (patched map[string]R, deprecated []R, err error) {
	patched = make(map[string]R, len(desired))
	for id, resource := range desired {
		p, perr := a.Patch(ctx, resource)
		if perr != nil {
			return nil, nil, perr
		}
		patched[id] = p
	}

	all, err := a.ListOwnedBy(ctx, owner)
	if err != nil {
		return nil, nil, err
	}

	wantNames := make(map[string]struct{}, len(patched))
	for _, r := range patched {
		wantNames[r.GetName()] = struct{}{}
	}

	for _, existing := range all {
		if _, ok := wantNames[existing.GetName()]; !ok {
			deprecated = append(deprecated, existing)
		}
	}

	return patched, deprecated, nil
}

// Sync patches every resource in desired and deletes every resource owned
// by owner that is no longer desired, in one call. Equivalent to
// Update followed by DeleteMany on the deprecated set.
func (a *Api[R]) Sync(ctx context.Context, owner metav1.Object, desired map[string]R) (map[string]R, error) {
	patched, deprecated, err := a.Update(ctx, owner, desired)
	if err != nil {
		return nil, err
	}
	if err := a.DeleteMany(ctx, deprecated); err != nil {
		return nil, err
	}
	return patched, nil
}
