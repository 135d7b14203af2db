package controllers

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/klog/v2"

	torv1 "github.com/agabani/tor-operator/pkg/apis/tor/v1"
	"github.com/agabani/tor-operator/pkg/config"
	kube "github.com/agabani/tor-operator/pkg/kubernetes"
	"github.com/agabani/tor-operator/pkg/metrics"
)

const torIngressComponent = "tor-ingress"

// TorIngressController reconciles TorIngresses: a fleet of OnionServices
// fronted by a single OnionBalance. It generates a random OnionKey per
// OnionService replica, only requiring the user to provide the
// OnionBalance's OnionKey, and grows/shrinks the replica set in two phases
// so a scale-down never drops a backend before its replacement is ready.
//
// Grounded on original_source/src/tor_ingress.rs's reconciler/generate_*
// functions in full.
type TorIngressController struct {
	clients    *Clients
	config     config.Config
	dispatcher *Dispatcher
}

// NewTorIngressController builds the controller; start it by calling Run on
// its Dispatcher.
func NewTorIngressController(clients *Clients, cfg config.Config) *TorIngressController {
	c := &TorIngressController{clients: clients, config: cfg}
	c.dispatcher = NewDispatcher(torIngressComponent, c.reconcile)
	return c
}

// Dispatcher exposes the underlying dispatcher so main can Watch informers
// and call Run.
func (c *TorIngressController) Dispatcher() *Dispatcher { return c.dispatcher }

func (c *TorIngressController) reconcile(namespace, name string) error {
	stop := metrics.CountAndMeasure(torIngressComponent)
	defer stop()
	klog.V(1).InfoS("reconciling", "controller", torIngressComponent, "namespace", namespace, "name", name)

	ctx := context.Background()
	api := torIngressAPI(c.clients, namespace)

	object, ok, err := api.GetOpt(ctx, name)
	if err != nil {
		metrics.ReconcileFailure(torIngressComponent, "kube")
		return err
	}
	if !ok {
		return nil
	}

	labels, err := kube.TryLabels(torIngressComponent, object)
	if err != nil {
		metrics.ReconcileFailure(torIngressComponent, "missing object key")
		return err
	}
	annotations := kube.NewAnnotations()

	state, err := c.reconcileOnionKey(ctx, namespace, object, annotations, labels)
	if err != nil {
		metrics.ReconcileFailure(torIngressComponent, "kube")
		return err
	}

	if onionBalanceOnionKey, onionServiceOnionKeys, ok := state.initialized(); ok {
		if err := c.reconcileOnionServices(ctx, namespace, object, annotations, labels, onionBalanceOnionKey); err != nil {
			metrics.ReconcileFailure(torIngressComponent, "kube")
			return err
		}
		if err := c.reconcileOnionBalance(ctx, namespace, object, annotations, labels, onionServiceOnionKeys); err != nil {
			metrics.ReconcileFailure(torIngressComponent, "kube")
			return err
		}
	}

	if err := c.reconcileStatus(ctx, api, object, state); err != nil {
		metrics.ReconcileFailure(torIngressComponent, "kube")
		return err
	}

	klog.V(1).InfoS("reconciled", "controller", torIngressComponent, "namespace", namespace, "name", name, "state", state.kind)

	delay := 5 * time.Second
	if state.kind == "initialized" {
		delay = time.Hour
	}
	c.dispatcher.EnqueueAfter(namespace, name, delay)
	return nil
}

// torIngressOnionKeyState mirrors original_source/src/tor_ingress.rs's State
// enum: the OnionBalance's OnionKey must resolve before the OnionService
// replicas' OnionKeys are even generated, and every replica's OnionKey must
// have a hostname before the fleet is considered initialized.
type torIngressOnionKeyState struct {
	kind                  string
	onionBalanceOnionKey  *torv1.OnionKey
	onionServiceOnionKeys map[int32]*torv1.OnionKey
}

func (s torIngressOnionKeyState) initialized() (*torv1.OnionKey, map[int32]*torv1.OnionKey, bool) {
	if s.kind != "initialized" {
		return nil, nil, false
	}
	return s.onionBalanceOnionKey, s.onionServiceOnionKeys, true
}

// conditions renders the Conditions this state contributes, matching the
// original's impl From<&State> for Vec<Condition>.
func (s torIngressOnionKeyState) conditions(now metav1.Time) []metav1.Condition {
	switch s.kind {
	case "onion balance onion key not found":
		return []metav1.Condition{{
			Type:               "OnionKey",
			Status:             metav1.ConditionFalse,
			Reason:             "NotFound",
			Message:            "The OnionBalance OnionKey was not found.",
			LastTransitionTime: now,
		}}
	case "onion balance onion key hostname not found":
		return []metav1.Condition{{
			Type:               "OnionKey",
			Status:             metav1.ConditionFalse,
			Reason:             "HostnameNotFound",
			Message:            "The OnionBalance OnionKey does not have a hostname.",
			LastTransitionTime: now,
		}}
	case "onion service onion key hostname not found":
		return []metav1.Condition{{
			Type:               "OnionKey",
			Status:             metav1.ConditionFalse,
			Reason:             "HostnameNotFound",
			Message:            "The OnionService OnionKey does not have a hostname.",
			LastTransitionTime: now,
		}}
	case "initialized":
		return []metav1.Condition{
			{
				Type:               "OnionKey",
				Status:             metav1.ConditionTrue,
				Reason:             "Ready",
				Message:            "The OnionKey is ready.",
				LastTransitionTime: now,
			},
			{
				Type:               "Initialized",
				Status:             metav1.ConditionTrue,
				Reason:             "Initialized",
				Message:            "The TorIngress is initialized.",
				LastTransitionTime: now,
			},
		}
	default:
		return nil
	}
}

// reconcileOnionKey resolves the user-provided OnionBalance OnionKey, then
// grows/shrinks the per-replica OnionService OnionKeys to match
// .spec.onionService.replicas via a two-phase Update (patch desired, defer
// deleting strays until every desired replica is ready).
func (c *TorIngressController) reconcileOnionKey(ctx context.Context, namespace string, object *torv1.TorIngress, annotations kube.Annotations, labels kube.Labels) (torIngressOnionKeyState, error) {
	api := onionKeyAPI(c.clients, namespace)

	onionBalanceOnionKey, ok, err := api.GetOpt(ctx, object.Spec.OnionBalance.OnionKey.Name)
	if err != nil {
		return torIngressOnionKeyState{}, err
	}
	if !ok {
		return torIngressOnionKeyState{kind: "onion balance onion key not found"}, nil
	}
	if onionBalanceOnionKey.Status.Hostname == nil {
		return torIngressOnionKeyState{kind: "onion balance onion key hostname not found"}, nil
	}

	replicas := onionServiceReplicas(object)
	desired := make(map[string]*torv1.OnionKey, replicas)
	for instance := int32(0); instance < replicas; instance++ {
		desired[onionKeyID(instance)] = generateOnionServiceOnionKey(object, annotations, labels, instance)
	}

	patched, deprecated, err := api.Update(ctx, object, desired)
	if err != nil {
		return torIngressOnionKeyState{}, err
	}

	onionServiceOnionKeys := make(map[int32]*torv1.OnionKey, len(patched))
	ready := true
	for instance := int32(0); instance < replicas; instance++ {
		onionKey, ok := patched[onionKeyID(instance)]
		if !ok {
			ready = false
			continue
		}
		onionServiceOnionKeys[instance] = onionKey
		if onionKey.Status.Hostname == nil {
			ready = false
		}
	}

	if !ready {
		return torIngressOnionKeyState{kind: "onion service onion key hostname not found"}, nil
	}

	if err := api.DeleteMany(ctx, deprecated); err != nil {
		return torIngressOnionKeyState{}, err
	}

	return torIngressOnionKeyState{
		kind:                  "initialized",
		onionBalanceOnionKey:  onionBalanceOnionKey,
		onionServiceOnionKeys: onionServiceOnionKeys,
	}, nil
}

func (c *TorIngressController) reconcileOnionServices(ctx context.Context, namespace string, object *torv1.TorIngress, annotations kube.Annotations, labels kube.Labels, onionBalanceOnionKey *torv1.OnionKey) error {
	api := onionServiceAPI(c.clients, namespace)

	replicas := onionServiceReplicas(object)
	desired := make(map[string]*torv1.OnionService, replicas)
	for instance := int32(0); instance < replicas; instance++ {
		desired[onionServiceName(object, instance)] = generateOnionService(object, annotations, labels, onionBalanceOnionKey, instance)
	}

	_, err := api.Sync(ctx, object, desired)
	return err
}

func (c *TorIngressController) reconcileOnionBalance(ctx context.Context, namespace string, object *torv1.TorIngress, annotations kube.Annotations, labels kube.Labels, onionServiceOnionKeys map[int32]*torv1.OnionKey) error {
	api := onionBalanceAPI(c.clients, namespace)

	desired := generateTorIngressOnionBalance(object, annotations, labels, onionServiceOnionKeys)
	_, err := api.Sync(ctx, object, map[string]*torv1.OnionBalance{onionBalanceName(object): desired})
	return err
}

func (c *TorIngressController) reconcileStatus(ctx context.Context, api *kube.Api[*torv1.TorIngress], object *torv1.TorIngress, state torIngressOnionKeyState) error {
	now := metav1.Now()
	selectorLabels := kube.NewSelectorLabels(onionServiceComponent, object.Name)

	status := torv1.TorIngressStatus{
		Conditions:    kube.MergeConditions(object.Status.Conditions, state.conditions(now)),
		LabelSelector: selectorLabels.String(),
		Replicas:      onionServiceReplicas(object),
	}
	if onionBalanceOnionKey, _, ok := state.initialized(); ok {
		hostname := *onionBalanceOnionKey.Status.Hostname
		status.Hostname = &hostname
	}
	_, err := api.UpdateStatus(ctx, object, status, object.Status)
	return err
}

// onionKeyID keys the per-replica desired-state map Update diffs against;
// it never becomes a resource name itself.
func onionKeyID(instance int32) string { return fmt.Sprintf("%d", instance) }

func onionServiceReplicas(object *torv1.TorIngress) int32 {
	if object.Spec.OnionService.Replicas > 0 {
		return object.Spec.OnionService.Replicas
	}
	return 3
}

func onionBalanceName(object *torv1.TorIngress) string {
	if object.Spec.OnionBalance.Name != nil {
		return *object.Spec.OnionBalance.Name
	}
	return object.Name
}

func onionBalanceConfigMapNamePrefix(object *torv1.TorIngress) string {
	if object.Spec.OnionBalance.ConfigMap != nil && object.Spec.OnionBalance.ConfigMap.Name != nil {
		return *object.Spec.OnionBalance.ConfigMap.Name
	}
	return object.Name
}

func onionBalanceDeploymentNamePrefix(object *torv1.TorIngress) string {
	if object.Spec.OnionBalance.Deployment != nil && object.Spec.OnionBalance.Deployment.Name != nil {
		return *object.Spec.OnionBalance.Deployment.Name
	}
	return object.Name
}

func onionServiceNamePrefix(object *torv1.TorIngress) string {
	if object.Spec.OnionService.NamePrefix != nil {
		return *object.Spec.OnionService.NamePrefix
	}
	return object.Name
}

func onionServiceName(object *torv1.TorIngress, instance int32) string {
	return fmt.Sprintf("%s-%d", onionServiceNamePrefix(object), instance)
}

func onionServiceConfigMapNamePrefix(object *torv1.TorIngress) string {
	if object.Spec.OnionService.ConfigMap != nil && object.Spec.OnionService.ConfigMap.NamePrefix != nil {
		return *object.Spec.OnionService.ConfigMap.NamePrefix
	}
	return object.Name
}

func onionServiceConfigMapName(object *torv1.TorIngress, instance int32) string {
	return fmt.Sprintf("%s-%d", onionServiceConfigMapNamePrefix(object), instance)
}

func onionServiceDeploymentNamePrefix(object *torv1.TorIngress) string {
	if object.Spec.OnionService.Deployment != nil && object.Spec.OnionService.Deployment.NamePrefix != nil {
		return *object.Spec.OnionService.Deployment.NamePrefix
	}
	return object.Name
}

func onionServiceDeploymentName(object *torv1.TorIngress, instance int32) string {
	return fmt.Sprintf("%s-%d", onionServiceDeploymentNamePrefix(object), instance)
}

func onionServiceOnionKeyNamePrefix(object *torv1.TorIngress) string {
	if object.Spec.OnionService.OnionKey != nil && object.Spec.OnionService.OnionKey.NamePrefix != nil {
		return *object.Spec.OnionService.OnionKey.NamePrefix
	}
	return object.Name
}

func onionServiceOnionKeyName(object *torv1.TorIngress, instance int32) string {
	return fmt.Sprintf("%s-%d", onionServiceOnionKeyNamePrefix(object), instance)
}

func onionServiceOnionKeySecretNamePrefix(object *torv1.TorIngress) string {
	if object.Spec.OnionService.OnionKey != nil && object.Spec.OnionService.OnionKey.Secret != nil && object.Spec.OnionService.OnionKey.Secret.NamePrefix != nil {
		return *object.Spec.OnionService.OnionKey.Secret.NamePrefix
	}
	return object.Name
}

func onionServiceOnionKeySecretName(object *torv1.TorIngress, instance int32) string {
	return fmt.Sprintf("%s-%d", onionServiceOnionKeySecretNamePrefix(object), instance)
}

func onionBalanceDeploymentContainersOnionBalanceResources(object *torv1.TorIngress) *corev1.ResourceRequirements {
	d := object.Spec.OnionBalance.Deployment
	if d == nil || d.Containers == nil || d.Containers.OnionBalance == nil {
		return nil
	}
	return d.Containers.OnionBalance.Resources
}

func onionBalanceDeploymentContainersTorResources(object *torv1.TorIngress) *corev1.ResourceRequirements {
	d := object.Spec.OnionBalance.Deployment
	if d == nil || d.Containers == nil || d.Containers.Tor == nil {
		return nil
	}
	return d.Containers.Tor.Resources
}

func onionServiceDeploymentContainersTorResources(object *torv1.TorIngress) *corev1.ResourceRequirements {
	d := object.Spec.OnionService.Deployment
	if d == nil || d.Containers == nil || d.Containers.Tor == nil {
		return nil
	}
	return d.Containers.Tor.Resources
}

func generateOnionServiceOnionKey(object *torv1.TorIngress, annotations kube.Annotations, labels kube.Labels, instance int32) *torv1.OnionKey {
	autoGenerate := true
	out := &torv1.OnionKey{
		ObjectMeta: metav1.ObjectMeta{
			Name:        onionServiceOnionKeyName(object, instance),
			Namespace:   object.Namespace,
			Annotations: annotations.Map(),
			Labels:      labels.Map(),
		},
		Spec: torv1.OnionKeySpec{
			AutoGenerate: &autoGenerate,
			Secret:       torv1.OnionKeySpecSecret{Name: onionServiceOnionKeySecretName(object, instance)},
		},
	}
	stampOwnerOrPanic(out, object)
	return out
}

func generateOnionService(object *torv1.TorIngress, annotations kube.Annotations, labels kube.Labels, onionBalanceOnionKey *torv1.OnionKey, instance int32) *torv1.OnionService {
	configMapName := onionServiceConfigMapName(object, instance)
	deploymentName := onionServiceDeploymentName(object, instance)
	onionKeyName := onionServiceOnionKeyName(object, instance)

	ports := make([]torv1.OnionServiceSpecHiddenServicePort, 0, len(object.Spec.OnionService.Ports))
	for _, port := range object.Spec.OnionService.Ports {
		ports = append(ports, torv1.OnionServiceSpecHiddenServicePort{Target: port.Target, Virtport: port.Virtport})
	}

	out := &torv1.OnionService{
		ObjectMeta: metav1.ObjectMeta{
			Name:        onionServiceName(object, instance),
			Namespace:   object.Namespace,
			Annotations: annotations.Map(),
			Labels:      labels.Map(),
		},
		Spec: torv1.OnionServiceSpec{
			ConfigMap: &torv1.OnionServiceSpecConfigMap{Name: &configMapName},
			Deployment: &torv1.OnionServiceSpecDeployment{
				Containers: &torv1.OnionServiceSpecDeploymentContainers{
					Tor: &torv1.OnionServiceSpecDeploymentContainersTor{
						Resources: onionServiceDeploymentContainersTorResources(object),
					},
				},
				Name: &deploymentName,
			},
			OnionBalance: &torv1.OnionServiceSpecOnionBalance{
				OnionKey: torv1.OnionServiceSpecOnionBalanceOnionKey{Hostname: *onionBalanceOnionKey.Status.Hostname},
			},
			OnionKey: torv1.OnionServiceSpecOnionKey{Name: onionKeyName},
			Ports:    ports,
		},
	}
	stampOwnerOrPanic(out, object)
	return out
}

func generateTorIngressOnionBalance(object *torv1.TorIngress, annotations kube.Annotations, labels kube.Labels, onionServiceOnionKeys map[int32]*torv1.OnionKey) *torv1.OnionBalance {
	name := onionBalanceName(object)
	configMapName := onionBalanceConfigMapNamePrefix(object)
	deploymentName := onionBalanceDeploymentNamePrefix(object)

	replicas := onionServiceReplicas(object)
	onionServices := make([]torv1.OnionBalanceSpecOnionService, 0, replicas)
	for instance := int32(0); instance < replicas; instance++ {
		onionServices = append(onionServices, torv1.OnionBalanceSpecOnionService{
			OnionKey: torv1.OnionBalanceSpecOnionServiceOnionKey{Hostname: *onionServiceOnionKeys[instance].Status.Hostname},
		})
	}

	out := &torv1.OnionBalance{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Namespace:   object.Namespace,
			Annotations: annotations.Map(),
			Labels:      labels.Map(),
		},
		Spec: torv1.OnionBalanceSpec{
			ConfigMap: &torv1.OnionBalanceSpecConfigMap{Name: &configMapName},
			Deployment: &torv1.OnionBalanceSpecDeployment{
				Containers: &torv1.OnionBalanceSpecDeploymentContainers{
					OnionBalance: &torv1.OnionBalanceSpecDeploymentContainersOnionBalance{
						Resources: onionBalanceDeploymentContainersOnionBalanceResources(object),
					},
					Tor: &torv1.OnionBalanceSpecDeploymentContainersTor{
						Resources: onionBalanceDeploymentContainersTorResources(object),
					},
				},
				Name: &deploymentName,
			},
			OnionKey:      torv1.OnionBalanceSpecOnionKey{Name: object.Spec.OnionBalance.OnionKey.Name},
			OnionServices: onionServices,
		},
	}
	stampOwnerOrPanic(out, object)
	return out
}
