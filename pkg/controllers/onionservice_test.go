package controllers

import (
	"strings"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	torv1 "github.com/agabani/tor-operator/pkg/apis/tor/v1"
)

func newOnionService(name string) *torv1.OnionService {
	return &torv1.OnionService{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "default",
			UID:       "22222222-2222-2222-2222-222222222222",
		},
		Spec: torv1.OnionServiceSpec{
			OnionKey: torv1.OnionServiceSpecOnionKey{Name: name + "-key"},
			Ports: []torv1.OnionServiceSpecHiddenServicePort{
				{Virtport: 80, Target: "example.default.svc.cluster.local:80"},
			},
		},
	}
}

func TestGenerateOnionServiceTorrc_Basic(t *testing.T) {
	object := newOnionService("web")

	torrc := generateOnionServiceTorrc(object)

	want := "HiddenServiceDir /var/lib/tor/hidden_service\nHiddenServicePort 80 example.default.svc.cluster.local:80"
	if torrc.String() != want {
		t.Fatalf("torrc = %q, want %q", torrc.String(), want)
	}
}

func TestGenerateOnionServiceTorrc_OnionBalanced(t *testing.T) {
	object := newOnionService("web")
	object.Spec.OnionBalance = &torv1.OnionServiceSpecOnionBalance{
		OnionKey: torv1.OnionServiceSpecOnionBalanceOnionKey{Hostname: "abc.onion"},
	}

	torrc := generateOnionServiceTorrc(object)

	if !strings.Contains(torrc.String(), "HiddenServiceOnionbalanceInstance 1") {
		t.Fatalf("torrc = %q, want the onionbalance instance marker", torrc.String())
	}
}

func TestGenerateOBConfig_OnlyWhenOnionBalanced(t *testing.T) {
	object := newOnionService("web")

	if _, ok := generateOBConfig(object); ok {
		t.Fatalf("expected no ob_config for a non-balanced service")
	}

	object.Spec.OnionBalance = &torv1.OnionServiceSpecOnionBalance{
		OnionKey: torv1.OnionServiceSpecOnionBalanceOnionKey{Hostname: "abc.onion"},
	}
	obConfig, ok := generateOBConfig(object)
	if !ok {
		t.Fatalf("expected an ob_config for a balanced service")
	}
	if obConfig.String() != "MasterOnionAddress abc.onion" {
		t.Fatalf("ob_config = %q", obConfig.String())
	}
}

func TestConfigMapName_DefaultsToObjectName(t *testing.T) {
	object := newOnionService("web")
	if got := configMapName(object); got != "web" {
		t.Fatalf("configMapName = %q, want %q", got, "web")
	}

	custom := "custom-config"
	object.Spec.ConfigMap = &torv1.OnionServiceSpecConfigMap{Name: &custom}
	if got := configMapName(object); got != custom {
		t.Fatalf("configMapName = %q, want %q", got, custom)
	}
}

func TestDeploymentName_DefaultsToObjectName(t *testing.T) {
	object := newOnionService("web")
	if got := deploymentName(object); got != "web" {
		t.Fatalf("deploymentName = %q, want %q", got, "web")
	}

	custom := "custom-deployment"
	object.Spec.Deployment = &torv1.OnionServiceSpecDeployment{Name: &custom}
	if got := deploymentName(object); got != custom {
		t.Fatalf("deploymentName = %q, want %q", got, custom)
	}
}

func TestOnionServiceOnionKeyState_Conditions(t *testing.T) {
	now := metav1.Now()

	notFound := onionServiceOnionKeyState{kind: "onion key not found"}
	conds := notFound.conditions(now)
	if len(conds) != 1 || conds[0].Status != metav1.ConditionFalse || conds[0].Reason != "NotFound" {
		t.Fatalf("conditions = %+v", conds)
	}

	initialized := onionServiceOnionKeyState{kind: "initialized", key: &torv1.OnionKey{}}
	conds = initialized.conditions(now)
	if len(conds) != 2 {
		t.Fatalf("conditions = %+v, want 2 entries", conds)
	}
	if _, ok := initialized.onionKey(); !ok {
		t.Fatalf("onionKey() = false, want true for an initialized state")
	}
}

func TestOnionServiceTorCommand_IncludesOBConfigCopyWhenBalanced(t *testing.T) {
	object := newOnionService("web")
	object.Spec.OnionBalance = &torv1.OnionServiceSpecOnionBalance{
		OnionKey: torv1.OnionServiceSpecOnionBalanceOnionKey{Hostname: "abc.onion"},
	}

	command := onionServiceTorCommand(object)

	if !strings.Contains(command, "cp /etc/configs/ob_config /var/lib/tor/hidden_service/ob_config") {
		t.Fatalf("command = %q, want the ob_config copy step", command)
	}
}
