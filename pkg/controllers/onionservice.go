package controllers

import (
	"context"
	"strings"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/klog/v2"

	torv1 "github.com/agabani/tor-operator/pkg/apis/tor/v1"
	"github.com/agabani/tor-operator/pkg/config"
	kube "github.com/agabani/tor-operator/pkg/kubernetes"
	"github.com/agabani/tor-operator/pkg/metrics"
	"github.com/agabani/tor-operator/pkg/tor"
)

const onionServiceComponent = "onion-service"

// OnionServiceController reconciles OnionServices: it resolves the backing
// OnionKey, then (once the key is ready) maintains a ConfigMap holding the
// generated torrc/ob_config and a Deployment running the tor daemon against
// it.
//
// Grounded on original_source/src/onion_service.rs's reconciler/generate_*
// functions in full.
type OnionServiceController struct {
	clients    *Clients
	config     config.Config
	dispatcher *Dispatcher
}

// NewOnionServiceController builds the controller; start it by calling Run
// on its Dispatcher.
func NewOnionServiceController(clients *Clients, cfg config.Config) *OnionServiceController {
	c := &OnionServiceController{clients: clients, config: cfg}
	c.dispatcher = NewDispatcher(onionServiceComponent, c.reconcile)
	return c
}

// Dispatcher exposes the underlying dispatcher so main can Watch informers
// and call Run.
func (c *OnionServiceController) Dispatcher() *Dispatcher { return c.dispatcher }

func (c *OnionServiceController) reconcile(namespace, name string) error {
	stop := metrics.CountAndMeasure(onionServiceComponent)
	defer stop()
	klog.V(1).InfoS("reconciling", "controller", onionServiceComponent, "namespace", namespace, "name", name)

	ctx := context.Background()
	api := onionServiceAPI(c.clients, namespace)

	object, ok, err := api.GetOpt(ctx, name)
	if err != nil {
		metrics.ReconcileFailure(onionServiceComponent, "kube")
		return err
	}
	if !ok {
		return nil
	}

	labels, err := kube.TryLabels(onionServiceComponent, object)
	if err != nil {
		metrics.ReconcileFailure(onionServiceComponent, "missing object key")
		return err
	}
	selectorLabels, err := kube.TrySelectorLabels(onionServiceComponent, object)
	if err != nil {
		metrics.ReconcileFailure(onionServiceComponent, "missing object key")
		return err
	}

	torrc := generateOnionServiceTorrc(object)
	obConfig, hasOBConfig := generateOBConfig(object)

	annotations := kube.NewAnnotations().Add(torrc)
	if hasOBConfig {
		annotations = annotations.Add(obConfig)
	}

	state, err := c.reconcileOnionKey(ctx, namespace, object)
	if err != nil {
		metrics.ReconcileFailure(onionServiceComponent, "kube")
		return err
	}

	if onionKey, ok := state.onionKey(); ok {
		if err := c.reconcileConfigMap(ctx, namespace, object, annotations, labels, torrc, obConfig, hasOBConfig); err != nil {
			metrics.ReconcileFailure(onionServiceComponent, "kube")
			return err
		}
		if err := c.reconcileDeployment(ctx, namespace, object, annotations, labels, selectorLabels, onionKey); err != nil {
			metrics.ReconcileFailure(onionServiceComponent, "kube")
			return err
		}
	}

	if err := c.reconcileStatus(ctx, api, object, state); err != nil {
		metrics.ReconcileFailure(onionServiceComponent, "kube")
		return err
	}

	klog.V(1).InfoS("reconciled", "controller", onionServiceComponent, "namespace", namespace, "name", name, "state", state.kind)

	delay := 5 * time.Second
	if state.kind == "initialized" {
		delay = time.Hour
	}
	c.dispatcher.EnqueueAfter(namespace, name, delay)
	return nil
}

// onionServiceOnionKeyState mirrors original_source/src/onion_service.rs's
// State enum: which of the three OnionKey resolution outcomes applied, and
// (only when initialized) the resolved OnionKey.
type onionServiceOnionKeyState struct {
	kind string
	key  *torv1.OnionKey
}

func (s onionServiceOnionKeyState) onionKey() (*torv1.OnionKey, bool) {
	if s.kind != "initialized" {
		return nil, false
	}
	return s.key, true
}

// conditions renders the Conditions this state contributes, matching the
// original's impl From<&State> for Vec<Condition>.
func (s onionServiceOnionKeyState) conditions(now metav1.Time) []metav1.Condition {
	switch s.kind {
	case "onion key not found":
		return []metav1.Condition{{
			Type:               "OnionKey",
			Status:             metav1.ConditionFalse,
			Reason:             "NotFound",
			Message:            "The OnionKey was not found.",
			LastTransitionTime: now,
		}}
	case "onion key hostname not found":
		return []metav1.Condition{{
			Type:               "OnionKey",
			Status:             metav1.ConditionFalse,
			Reason:             "HostnameNotFound",
			Message:            "The OnionKey does not have a hostname.",
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
				Message:            "The OnionService is initialized.",
				LastTransitionTime: now,
			},
		}
	default:
		return nil
	}
}

func (c *OnionServiceController) reconcileOnionKey(ctx context.Context, namespace string, object *torv1.OnionService) (onionServiceOnionKeyState, error) {
	api := onionKeyAPI(c.clients, namespace)

	onionKey, ok, err := api.GetOpt(ctx, object.Spec.OnionKey.Name)
	if err != nil {
		return onionServiceOnionKeyState{}, err
	}
	if !ok {
		return onionServiceOnionKeyState{kind: "onion key not found"}, nil
	}
	if onionKey.Status.Hostname == nil {
		return onionServiceOnionKeyState{kind: "onion key hostname not found"}, nil
	}
	return onionServiceOnionKeyState{kind: "initialized", key: onionKey}, nil
}

func (c *OnionServiceController) reconcileConfigMap(ctx context.Context, namespace string, object *torv1.OnionService, annotations kube.Annotations, labels kube.Labels, torrc tor.Torrc, obConfig tor.OBConfig, hasOBConfig bool) error {
	api := configMapAPI(c.clients, namespace)
	desired := generateOnionServiceConfigMap(object, annotations, labels, torrc, obConfig, hasOBConfig)
	_, err := api.Sync(ctx, object, map[string]*corev1.ConfigMap{configMapName(object): desired})
	return err
}

func (c *OnionServiceController) reconcileDeployment(ctx context.Context, namespace string, object *torv1.OnionService, annotations kube.Annotations, labels kube.Labels, selectorLabels kube.SelectorLabels, onionKey *torv1.OnionKey) error {
	api := deploymentAPI(c.clients, namespace)
	desired := generateOnionServiceDeployment(object, c.config, annotations, labels, selectorLabels, onionKey)
	_, err := api.Sync(ctx, object, map[string]*appsv1.Deployment{deploymentName(object): desired})
	return err
}

func (c *OnionServiceController) reconcileStatus(ctx context.Context, api *kube.Api[*torv1.OnionService], object *torv1.OnionService, state onionServiceOnionKeyState) error {
	now := metav1.Now()
	status := torv1.OnionServiceStatus{
		Conditions: kube.MergeConditions(object.Status.Conditions, state.conditions(now)),
	}
	if onionKey, ok := state.onionKey(); ok {
		hostname := *onionKey.Status.Hostname
		status.Hostname = &hostname
	}
	_, err := api.UpdateStatus(ctx, object, status, object.Status)
	return err
}

func configMapName(object *torv1.OnionService) string {
	if object.Spec.ConfigMap != nil && object.Spec.ConfigMap.Name != nil {
		return *object.Spec.ConfigMap.Name
	}
	return object.Name
}

func deploymentName(object *torv1.OnionService) string {
	if object.Spec.Deployment != nil && object.Spec.Deployment.Name != nil {
		return *object.Spec.Deployment.Name
	}
	return object.Name
}

func onionBalanced(object *torv1.OnionService) bool {
	return object.Spec.OnionBalance != nil
}

func deploymentContainersTorResources(object *torv1.OnionService) *corev1.ResourceRequirements {
	if object.Spec.Deployment == nil || object.Spec.Deployment.Containers == nil || object.Spec.Deployment.Containers.Tor == nil {
		return nil
	}
	return object.Spec.Deployment.Containers.Tor.Resources
}

func generateOnionServiceTorrc(object *torv1.OnionService) tor.Torrc {
	builder := tor.NewTorrcBuilder().HiddenServiceDir("/var/lib/tor/hidden_service")
	if onionBalanced(object) {
		builder = builder.HiddenServiceOnionbalanceInstance()
	}
	for _, port := range object.Spec.Ports {
		builder = builder.HiddenServicePort(port.Virtport, port.Target)
	}
	return builder.Build()
}

func generateOBConfig(object *torv1.OnionService) (tor.OBConfig, bool) {
	if object.Spec.OnionBalance == nil {
		return "", false
	}
	return tor.NewOBConfig(object.Spec.OnionBalance.OnionKey.Hostname), true
}

func generateOnionServiceConfigMap(object *torv1.OnionService, annotations kube.Annotations, labels kube.Labels, torrc tor.Torrc, obConfig tor.OBConfig, hasOBConfig bool) *corev1.ConfigMap {
	data := map[string]string{"torrc": torrc.String()}
	if hasOBConfig {
		data["ob_config"] = obConfig.String()
	}
	out := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:        configMapName(object),
			Namespace:   object.Namespace,
			Annotations: annotations.Map(),
			Labels:      labels.Map(),
		},
		Data: data,
	}
	stampOwnerOrPanic(out, object)
	return out
}

func generateOnionServiceDeployment(object *torv1.OnionService, cfg config.Config, annotations kube.Annotations, labels kube.Labels, selectorLabels kube.SelectorLabels, onionKey *torv1.OnionKey) *appsv1.Deployment {
	replicas := int32(1)
	defaultMode400 := int32(0o400)
	secretItems := []corev1.KeyToPath{
		{Key: "hostname", Mode: &defaultMode400, Path: "hostname"},
		{Key: "hs_ed25519_public_key", Mode: &defaultMode400, Path: "hs_ed25519_public_key"},
		{Key: "hs_ed25519_secret_key", Mode: &defaultMode400, Path: "hs_ed25519_secret_key"},
	}
	configMapItems := []corev1.KeyToPath{{Key: "torrc", Mode: &defaultMode400, Path: "torrc"}}
	if onionBalanced(object) {
		configMapItems = append(configMapItems, corev1.KeyToPath{Key: "ob_config", Mode: &defaultMode400, Path: "ob_config"})
	}

	secretOptional := false
	configMapOptional := false

	out := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:        deploymentName(object),
			Namespace:   object.Namespace,
			Annotations: annotations.Map(),
			Labels:      labels.Map(),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: selectorLabels.Map()},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Annotations: annotations.Map(),
					Labels:      labels.Map(),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:            "tor",
							Command:         []string{"/bin/bash"},
							Args:            []string{"-c", onionServiceTorCommand(object)},
							Image:           cfg.TorImage.URI,
							ImagePullPolicy: corev1.PullPolicy(cfg.TorImage.PullPolicy),
							LivenessProbe:   torSocksProbe(),
							ReadinessProbe:  torSocksProbe(),
							Resources:       deploymentContainerResources(deploymentContainersTorResources(object)),
							VolumeMounts: []corev1.VolumeMount{
								{Name: "etc-secrets", MountPath: "/etc/secrets", ReadOnly: true},
								{Name: "etc-configs", MountPath: "/etc/configs", ReadOnly: true},
							},
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: "etc-secrets",
							VolumeSource: corev1.VolumeSource{
								Secret: &corev1.SecretVolumeSource{
									SecretName:  onionKey.Spec.Secret.Name,
									Items:       secretItems,
									DefaultMode: &defaultMode400,
									Optional:    &secretOptional,
								},
							},
						},
						{
							Name: "etc-configs",
							VolumeSource: corev1.VolumeSource{
								ConfigMap: &corev1.ConfigMapVolumeSource{
									LocalObjectReference: corev1.LocalObjectReference{Name: configMapName(object)},
									Items:                configMapItems,
									DefaultMode:          &defaultMode400,
									Optional:             &configMapOptional,
								},
							},
						},
					},
				},
			},
		},
	}
	stampOwnerOrPanic(out, object)
	return out
}

func onionServiceTorCommand(object *torv1.OnionService) string {
	commands := []string{
		"mkdir -p /var/lib/tor/hidden_service",
		"chmod 400 /var/lib/tor/hidden_service",
		"cp /etc/secrets/* /var/lib/tor/hidden_service",
	}
	if onionBalanced(object) {
		commands = append(commands, "cp /etc/configs/ob_config /var/lib/tor/hidden_service/ob_config")
	}
	commands = append(commands,
		"mkdir -p /usr/local/etc/tor",
		"cp /etc/configs/torrc /usr/local/etc/tor/torrc",
		"tor -f /usr/local/etc/tor/torrc",
	)
	return strings.Join(commands, " && ")
}

func torSocksProbe() *corev1.Probe {
	return &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			Exec: &corev1.ExecAction{
				Command: []string{"/bin/bash", "-c", "echo > /dev/tcp/127.0.0.1/9050"},
			},
		},
		FailureThreshold: 3,
		PeriodSeconds:    10,
		SuccessThreshold: 1,
		TimeoutSeconds:   1,
	}
}

func deploymentContainerResources(resources *corev1.ResourceRequirements) corev1.ResourceRequirements {
	if resources == nil {
		return corev1.ResourceRequirements{}
	}
	return *resources
}
