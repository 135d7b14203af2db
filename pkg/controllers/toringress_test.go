package controllers

import (
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	torv1 "github.com/agabani/tor-operator/pkg/apis/tor/v1"
	kube "github.com/agabani/tor-operator/pkg/kubernetes"
)

func newTorIngress(name string, replicas int32) *torv1.TorIngress {
	return &torv1.TorIngress{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "default",
			UID:       "44444444-4444-4444-4444-444444444444",
		},
		Spec: torv1.TorIngressSpec{
			OnionBalance: torv1.TorIngressSpecOnionBalance{
				OnionKey: torv1.TorIngressSpecOnionBalanceOnionKey{Name: name + "-balance-key"},
			},
			OnionService: torv1.TorIngressSpecOnionService{
				Replicas: replicas,
				Ports: []torv1.TorIngressSpecOnionServicePort{
					{Virtport: 80, Target: "example.default.svc.cluster.local:80"},
				},
			},
		},
	}
}

func TestOnionServiceReplicas_DefaultsToThree(t *testing.T) {
	object := newTorIngress("web", 0)
	if got := onionServiceReplicas(object); got != 3 {
		t.Fatalf("onionServiceReplicas = %d, want 3", got)
	}

	object = newTorIngress("web", 5)
	if got := onionServiceReplicas(object); got != 5 {
		t.Fatalf("onionServiceReplicas = %d, want 5", got)
	}
}

func TestOnionBalanceName_DefaultsToObjectName(t *testing.T) {
	object := newTorIngress("web", 3)
	if got := onionBalanceName(object); got != "web" {
		t.Fatalf("onionBalanceName = %q, want %q", got, "web")
	}

	custom := "custom-balance"
	object.Spec.OnionBalance.Name = &custom
	if got := onionBalanceName(object); got != custom {
		t.Fatalf("onionBalanceName = %q, want %q", got, custom)
	}
}

func TestOnionServiceName_SuffixesWithInstance(t *testing.T) {
	object := newTorIngress("web", 3)
	if got := onionServiceName(object, 0); got != "web-0" {
		t.Fatalf("onionServiceName = %q, want %q", got, "web-0")
	}
	if got := onionServiceName(object, 2); got != "web-2" {
		t.Fatalf("onionServiceName = %q, want %q", got, "web-2")
	}

	prefix := "custom"
	object.Spec.OnionService.NamePrefix = &prefix
	if got := onionServiceName(object, 1); got != "custom-1" {
		t.Fatalf("onionServiceName = %q, want %q", got, "custom-1")
	}
}

func TestGenerateOnionServiceOnionKey_AutoGeneratesAndStampsOwner(t *testing.T) {
	object := newTorIngress("web", 3)
	onionKey := generateOnionServiceOnionKey(object, kube.NewAnnotations(), kube.Labels{}, 1)

	if onionKey.Name != "web-1" {
		t.Fatalf("onionKey.Name = %q, want %q", onionKey.Name, "web-1")
	}
	if onionKey.Spec.AutoGenerate == nil || !*onionKey.Spec.AutoGenerate {
		t.Fatalf("expected AutoGenerate to be true")
	}
	if onionKey.Spec.Secret.Name != "web-1" {
		t.Fatalf("onionKey.Spec.Secret.Name = %q, want %q", onionKey.Spec.Secret.Name, "web-1")
	}
	if len(onionKey.OwnerReferences) != 1 || onionKey.OwnerReferences[0].Kind != "TorIngress" {
		t.Fatalf("owner references = %+v, want a single TorIngress owner", onionKey.OwnerReferences)
	}
}

func TestGenerateOnionService_UsesOnionBalanceHostnameAndPorts(t *testing.T) {
	object := newTorIngress("web", 3)
	hostname := "balance.onion"
	onionBalanceOnionKey := &torv1.OnionKey{Status: torv1.OnionKeyStatus{Hostname: &hostname}}

	onionService := generateOnionService(object, kube.NewAnnotations(), kube.Labels{}, onionBalanceOnionKey, 0)

	if onionService.Name != "web-0" {
		t.Fatalf("onionService.Name = %q, want %q", onionService.Name, "web-0")
	}
	if onionService.Spec.OnionBalance.OnionKey.Hostname != hostname {
		t.Fatalf("onionService.Spec.OnionBalance.OnionKey.Hostname = %q, want %q", onionService.Spec.OnionBalance.OnionKey.Hostname, hostname)
	}
	if len(onionService.Spec.Ports) != 1 || onionService.Spec.Ports[0].Virtport != 80 {
		t.Fatalf("onionService.Spec.Ports = %+v", onionService.Spec.Ports)
	}
	if onionService.Spec.OnionKey.Name != "web-0" {
		t.Fatalf("onionService.Spec.OnionKey.Name = %q, want %q", onionService.Spec.OnionKey.Name, "web-0")
	}
}

func TestGenerateTorIngressOnionBalance_ListsEveryReplicaHostname(t *testing.T) {
	object := newTorIngress("web", 2)
	hostnameA, hostnameB := "a.onion", "b.onion"
	onionServiceOnionKeys := map[int32]*torv1.OnionKey{
		0: {Status: torv1.OnionKeyStatus{Hostname: &hostnameA}},
		1: {Status: torv1.OnionKeyStatus{Hostname: &hostnameB}},
	}

	onionBalance := generateTorIngressOnionBalance(object, kube.NewAnnotations(), kube.Labels{}, onionServiceOnionKeys)

	if onionBalance.Name != "web" {
		t.Fatalf("onionBalance.Name = %q, want %q", onionBalance.Name, "web")
	}
	if len(onionBalance.Spec.OnionServices) != 2 {
		t.Fatalf("onionBalance.Spec.OnionServices = %+v, want 2 entries", onionBalance.Spec.OnionServices)
	}
	if onionBalance.Spec.OnionKey.Name != "web-balance-key" {
		t.Fatalf("onionBalance.Spec.OnionKey.Name = %q, want %q", onionBalance.Spec.OnionKey.Name, "web-balance-key")
	}
}

func TestTorIngressOnionKeyState_InitializedAndConditions(t *testing.T) {
	now := metav1.Now()

	notFound := torIngressOnionKeyState{kind: "onion balance onion key not found"}
	if _, _, ok := notFound.initialized(); ok {
		t.Fatalf("initialized() = true, want false for a not-found state")
	}
	if conds := notFound.conditions(now); len(conds) != 1 || conds[0].Reason != "NotFound" {
		t.Fatalf("conditions = %+v", conds)
	}

	hostname := "balance.onion"
	initialized := torIngressOnionKeyState{
		kind:                 "initialized",
		onionBalanceOnionKey: &torv1.OnionKey{Status: torv1.OnionKeyStatus{Hostname: &hostname}},
		onionServiceOnionKeys: map[int32]*torv1.OnionKey{
			0: {Status: torv1.OnionKeyStatus{Hostname: &hostname}},
		},
	}
	key, services, ok := initialized.initialized()
	if !ok || key == nil || len(services) != 1 {
		t.Fatalf("initialized() = (%v, %v, %v), want a resolved key and services", key, services, ok)
	}
	if conds := initialized.conditions(now); len(conds) != 2 {
		t.Fatalf("conditions = %+v, want 2 entries", conds)
	}
}
