package kubernetes

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
)

// DynamicResourceClient adapts a namespaced dynamic.ResourceInterface (one
// GroupVersionResource, no generated typed clientset required) into a
// ResourceClient[R]. It round-trips through unstructured.Unstructured via
// runtime's default converter, the same technique controller-runtime's own
// client uses internally for types it has no generated clientset for.
//
// The tor.agabani.co.uk CRDs have no client-gen output in this repo (the
// code-generator invocation is out of scope per spec.md §1), so every
// OnionKey/OnionService/OnionBalance/TorIngress/TorProxy Api[R] is backed by
// one of these rather than a hand-written typed client per kind.
type DynamicResourceClient[R runtime.Object] struct {
	resource dynamic.ResourceInterface
	newEmpty func() R
}

// NewDynamicResourceClient builds a ResourceClient[R] scoped to one
// namespace. newEmpty must return a freshly allocated, non-nil value (e.g.
// func() *OnionKey { return &OnionKey{} }).
func NewDynamicResourceClient[R runtime.Object](client dynamic.Interface, gvr schema.GroupVersionResource, namespace string, newEmpty func() R) *DynamicResourceClient[R] {
	return &DynamicResourceClient[R]{
		resource: client.Resource(gvr).Namespace(namespace),
		newEmpty: newEmpty,
	}
}

func (c *DynamicResourceClient[R]) Get(ctx context.Context, name string, opts metav1.GetOptions) (R, error) {
	var zero R
	u, err := c.resource.Get(ctx, name, opts)
	if err != nil {
		return zero, err
	}
	return c.fromUnstructured(u)
}

func (c *DynamicResourceClient[R]) List(ctx context.Context, opts metav1.ListOptions) ([]R, error) {
	list, err := c.resource.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make([]R, 0, len(list.Items))
	for i := range list.Items {
		obj, err := c.fromUnstructured(&list.Items[i])
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

func (c *DynamicResourceClient[R]) Patch(ctx context.Context, name string, pt types.PatchType, data []byte, opts metav1.PatchOptions, subresources ...string) (R, error) {
	var zero R
	u, err := c.resource.Patch(ctx, name, pt, data, opts, subresources...)
	if err != nil {
		return zero, err
	}
	return c.fromUnstructured(u)
}

func (c *DynamicResourceClient[R]) Delete(ctx context.Context, name string, opts metav1.DeleteOptions) error {
	return c.resource.Delete(ctx, name, opts)
}

func (c *DynamicResourceClient[R]) fromUnstructured(u *unstructured.Unstructured) (R, error) {
	out := c.newEmpty()
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(u.Object, out); err != nil {
		var zero R
		return zero, err
	}
	return out, nil
}
