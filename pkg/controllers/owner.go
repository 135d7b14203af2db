package controllers

import (
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"

	torv1 "github.com/agabani/tor-operator/pkg/apis/tor/v1"
	kube "github.com/agabani/tor-operator/pkg/kubernetes"
)

// Schema kinds for every owning CRD, used to set the correct Kind on a
// generated child's owner reference regardless of which controller
// generated it.
var (
	schemaKindOnionKey     = torv1.SchemeGroupVersion.WithKind("OnionKey")
	schemaKindOnionService = torv1.SchemeGroupVersion.WithKind("OnionService")
	schemaKindOnionBalance = torv1.SchemeGroupVersion.WithKind("OnionBalance")
	schemaKindTorIngress   = torv1.SchemeGroupVersion.WithKind("TorIngress")
	schemaKindTorProxy     = torv1.SchemeGroupVersion.WithKind("TorProxy")
)

// ownerGVK resolves the schema kind of owner, so a single stampOwnerOrPanic
// helper can stamp children of any of the five CRD kinds.
func ownerGVK(owner metav1.Object) schema.GroupVersionKind {
	switch owner.(type) {
	case *torv1.OnionKey:
		return schemaKindOnionKey
	case *torv1.OnionService:
		return schemaKindOnionService
	case *torv1.OnionBalance:
		return schemaKindOnionBalance
	case *torv1.TorIngress:
		return schemaKindTorIngress
	case *torv1.TorProxy:
		return schemaKindTorProxy
	default:
		panic(fmt.Sprintf("controllers: no schema kind registered for owner type %T", owner))
	}
}

// stampOwnerOrPanic stamps child with owner's controller reference and
// owned-by label. owner is always a live object fetched from the API
// server, so it always carries a name/uid; a failure here means the client
// returned a malformed object, which every caller already treats as fatal.
func stampOwnerOrPanic(child, owner metav1.Object) {
	if err := kube.StampOwner(child, owner, ownerGVK(owner)); err != nil {
		panic(err)
	}
}
