package kubernetes

import "testing"

func TestNewLabels_IncludesSelectorAndOwnership(t *testing.T) {
	labels := NewLabels("onion-service", "my-svc", "uid-123")

	want := map[string]string{
		AppKubernetesIOComponentKey: "onion-service",
		AppKubernetesIOInstanceKey:  "my-svc",
		AppKubernetesIOManagedByKey: "tor-operator",
		AppKubernetesIONameKey:      "tor",
		TorAgabaniCoUkOwnedByKey:    "uid-123",
	}

	for k, v := range want {
		if labels[k] != v {
			t.Errorf("labels[%q] = %q, want %q", k, labels[k], v)
		}
	}
	if len(labels) != len(want) {
		t.Errorf("len(labels) = %d, want %d", len(labels), len(want))
	}
}

func TestNewSelectorLabels_ExcludesOwnership(t *testing.T) {
	sel := NewSelectorLabels("onion-service", "my-svc")
	if _, ok := sel[TorAgabaniCoUkOwnedByKey]; ok {
		t.Fatalf("selector labels must not include owned-by, got %+v", sel)
	}
	if sel[AppKubernetesIOInstanceKey] != "my-svc" {
		t.Fatalf("selector labels missing instance")
	}
}

func TestOwnedBySelector(t *testing.T) {
	if got := OwnedBySelector("abc"); got != "tor.agabani.co.uk/owned-by=abc" {
		t.Fatalf("OwnedBySelector = %q", got)
	}
}
