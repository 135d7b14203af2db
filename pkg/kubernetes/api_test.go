package kubernetes

import (
	"context"
	"encoding/json"
	"testing"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"

	"github.com/google/uuid"
)

// testResource is the minimal fixture used to exercise Api[R] without a
// generated clientset: a bare ObjectMeta-bearing struct, matching the shape
// every CRD type in pkg/apis/tor/v1 has.
type testResource struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`
}

func (r *testResource) DeepCopy() *testResource {
	cp := *r
	cp.ObjectMeta = *r.ObjectMeta.DeepCopy()
	return &cp
}

// testResourceIsSubset ignores testResource's (nonexistent) spec and only
// compares the metadata fields ObjectMetaIsSubset covers, matching the
// shape of every CRD type in pkg/apis/tor/v1.
func testResourceIsSubset(desired, observed *testResource) bool {
	return ObjectMetaIsSubset(desired.ObjectMeta, observed.ObjectMeta)
}

// fakeResourceClient is an in-memory stand-in for a generated clientset's
// <Kind>Interface, good enough to exercise Api[R]'s get/list/patch/delete
// composition without depending on a real typed or dynamic fake clientset.
type fakeResourceClient struct {
	store      map[string]*testResource
	patchCalls int
}

func newFakeResourceClient() *fakeResourceClient {
	return &fakeResourceClient{store: map[string]*testResource{}}
}

func (f *fakeResourceClient) Get(_ context.Context, name string, _ metav1.GetOptions) (*testResource, error) {
	r, ok := f.store[name]
	if !ok {
		return nil, apierrors.NewNotFound(schema.GroupResource{Resource: "testresources"}, name)
	}
	return r.DeepCopy(), nil
}

func (f *fakeResourceClient) List(_ context.Context, opts metav1.ListOptions) ([]*testResource, error) {
	selector, err := labels.Parse(opts.LabelSelector)
	if err != nil {
		return nil, err
	}
	var out []*testResource
	for _, r := range f.store {
		if selector.Matches(labels.Set(r.Labels)) {
			out = append(out, r.DeepCopy())
		}
	}
	return out, nil
}

func (f *fakeResourceClient) Patch(_ context.Context, name string, _ types.PatchType, data []byte, _ metav1.PatchOptions, _ ...string) (*testResource, error) {
	f.patchCalls++
	existing, ok := f.store[name]
	if !ok {
		existing = &testResource{}
	}

	// Server-side apply and merge patch both converge on "the fields in
	// data win"; for this fake that's good enough to exercise Api[R].
	var partial map[string]any
	if err := json.Unmarshal(data, &partial); err != nil {
		return nil, err
	}

	merged := existing.DeepCopy()
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	var mergedMap map[string]any
	if err := json.Unmarshal(raw, &mergedMap); err != nil {
		return nil, err
	}
	for k, v := range partial {
		if k == "status" {
			mergedMap["status"] = v
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			if existingSub, ok := mergedMap[k].(map[string]any); ok {
				for sk, sv := range sub {
					existingSub[sk] = sv
				}
				mergedMap[k] = existingSub
				continue
			}
		}
		mergedMap[k] = v
	}

	mergedRaw, err := json.Marshal(mergedMap)
	if err != nil {
		return nil, err
	}
	result := &testResource{}
	if err := json.Unmarshal(mergedRaw, result); err != nil {
		return nil, err
	}
	result.Name = name
	f.store[name] = result.DeepCopy()
	return result, nil
}

func (f *fakeResourceClient) Delete(_ context.Context, name string, _ metav1.DeleteOptions) error {
	if _, ok := f.store[name]; !ok {
		return apierrors.NewNotFound(schema.GroupResource{Resource: "testresources"}, name)
	}
	delete(f.store, name)
	return nil
}

func newOwner(uid string) metav1.Object {
	o := &unstructured.Unstructured{}
	o.SetUID(types.UID(uid))
	o.SetName("owner")
	return o
}

func TestApi_PatchAndGetOpt(t *testing.T) {
	client := newFakeResourceClient()
	api := NewApi[*testResource](client, testResourceIsSubset)
	ctx := context.Background()

	resource := &testResource{ObjectMeta: metav1.ObjectMeta{Name: "child-1"}}
	patched, err := api.Patch(ctx, resource)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if patched.Name != "child-1" {
		t.Fatalf("patched.Name = %q", patched.Name)
	}

	got, ok, err := api.GetOpt(ctx, "child-1")
	if err != nil || !ok {
		t.Fatalf("GetOpt(child-1) = %v, %v, %v", got, ok, err)
	}

	_, ok, err = api.GetOpt(ctx, "missing")
	if err != nil {
		t.Fatalf("GetOpt(missing): %v", err)
	}
	if ok {
		t.Fatalf("GetOpt(missing) reported found")
	}
}

func TestApi_Sync_ConvergesAndDeletesStrays(t *testing.T) {
	client := newFakeResourceClient()
	api := NewApi[*testResource](client, testResourceIsSubset)
	ctx := context.Background()
	ownerUID := uuid.New().String()
	owner := newOwner(ownerUID)

	// Seed a stray child, owned by the same owner, not in the desired set.
	stray := &testResource{ObjectMeta: metav1.ObjectMeta{
		Name:   "stray",
		Labels: map[string]string{TorAgabaniCoUkOwnedByKey: ownerUID},
	}}
	if _, err := api.Patch(ctx, stray); err != nil {
		t.Fatalf("seed stray: %v", err)
	}

	desired := map[string]*testResource{
		"0": {ObjectMeta: metav1.ObjectMeta{
			Name:   "wanted-0",
			Labels: map[string]string{TorAgabaniCoUkOwnedByKey: ownerUID},
		}},
	}

	patched, err := api.Sync(ctx, owner, desired)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(patched) != 1 {
		t.Fatalf("len(patched) = %d, want 1", len(patched))
	}

	if _, ok, _ := api.GetOpt(ctx, "stray"); ok {
		t.Fatalf("stray child was not deleted by Sync")
	}
	if _, ok, _ := api.GetOpt(ctx, "wanted-0"); !ok {
		t.Fatalf("desired child was not created by Sync")
	}
}

// TestApi_Sync_SecondCallIsNoOp exercises the convergence property: once
// desired has been applied, a follow-up Sync with the identical desired
// state must not issue any further patches.
func TestApi_Sync_SecondCallIsNoOp(t *testing.T) {
	client := newFakeResourceClient()
	api := NewApi[*testResource](client, testResourceIsSubset)
	ctx := context.Background()
	ownerUID := uuid.New().String()
	owner := newOwner(ownerUID)

	desired := map[string]*testResource{
		"0": {ObjectMeta: metav1.ObjectMeta{
			Name:        "wanted-0",
			Labels:      map[string]string{TorAgabaniCoUkOwnedByKey: ownerUID},
			Annotations: map[string]string{"tor.agabani.co.uk/torrc-hash": "sha256:abc"},
		}},
	}

	if _, err := api.Sync(ctx, owner, desired); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	firstCallPatches := client.patchCalls
	if firstCallPatches == 0 {
		t.Fatalf("expected the first Sync to patch the new child")
	}

	if _, err := api.Sync(ctx, owner, desired); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if client.patchCalls != firstCallPatches {
		t.Fatalf("second Sync issued %d more patches, want 0", client.patchCalls-firstCallPatches)
	}
}

func TestApi_Update_DoesNotDeleteStrays(t *testing.T) {
	client := newFakeResourceClient()
	api := NewApi[*testResource](client, testResourceIsSubset)
	ctx := context.Background()
	ownerUID := uuid.New().String()
	owner := newOwner(ownerUID)

	stray := &testResource{ObjectMeta: metav1.ObjectMeta{
		Name:   "stray",
		Labels: map[string]string{TorAgabaniCoUkOwnedByKey: ownerUID},
	}}
	if _, err := api.Patch(ctx, stray); err != nil {
		t.Fatalf("seed stray: %v", err)
	}

	desired := map[string]*testResource{
		"0": {ObjectMeta: metav1.ObjectMeta{
			Name:   "wanted-0",
			Labels: map[string]string{TorAgabaniCoUkOwnedByKey: ownerUID},
		}},
	}

	patched, deprecated, err := api.Update(ctx, owner, desired)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(patched) != 1 {
		t.Fatalf("len(patched) = %d, want 1", len(patched))
	}
	if len(deprecated) != 1 || deprecated[0].Name != "stray" {
		t.Fatalf("deprecated = %+v, want [stray]", deprecated)
	}

	if _, ok, _ := api.GetOpt(ctx, "stray"); !ok {
		t.Fatalf("Update must not delete strays itself")
	}
}

func TestApi_Delete_IgnoresAlreadyGone(t *testing.T) {
	client := newFakeResourceClient()
	api := NewApi[*testResource](client, testResourceIsSubset)
	ctx := context.Background()

	resource := &testResource{ObjectMeta: metav1.ObjectMeta{Name: "child"}}
	if _, err := api.Patch(ctx, resource); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if err := api.Delete(ctx, "child"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// Deleting an already-deleted resource must not error.
	if err := api.Delete(ctx, "child"); err != nil {
		t.Fatalf("Delete(already-gone): %v", err)
	}
}

func TestApi_UpdateStatus_NoOpWhenUnchanged(t *testing.T) {
	client := newFakeResourceClient()
	api := NewApi[*testResource](client, testResourceIsSubset)
	ctx := context.Background()

	resource := &testResource{ObjectMeta: metav1.ObjectMeta{Name: "child"}}
	patched, err := api.Patch(ctx, resource)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}

	status := map[string]string{"phase": "ready"}
	patchesBefore := client.patchCalls
	if _, err := api.UpdateStatus(ctx, patched, status, status); err != nil {
		t.Fatalf("UpdateStatus(unchanged): %v", err)
	}
	if client.patchCalls != patchesBefore {
		t.Fatalf("UpdateStatus(unchanged) issued %d patches, want 0", client.patchCalls-patchesBefore)
	}

	if _, err := api.UpdateStatus(ctx, patched, status, map[string]string{"phase": "pending"}); err != nil {
		t.Fatalf("UpdateStatus(changed): %v", err)
	}
	if client.patchCalls != patchesBefore+1 {
		t.Fatalf("UpdateStatus(changed) issued %d patches, want 1", client.patchCalls-patchesBefore)
	}
}
