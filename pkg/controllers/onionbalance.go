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

const onionBalanceComponent = "onion-balance"

// OnionBalanceController reconciles OnionBalances: it resolves the backing
// OnionKey, then (once ready) maintains a ConfigMap holding the generated
// torrc/config.yaml and a two-container Deployment (onionbalance + tor)
// running against it.
//
// Grounded on original_source/src/onion_balance.rs's reconciler/generate_*
// functions in full.
type OnionBalanceController struct {
	clients    *Clients
	config     config.Config
	dispatcher *Dispatcher
}

// NewOnionBalanceController builds the controller; start it by calling Run
// on its Dispatcher.
func NewOnionBalanceController(clients *Clients, cfg config.Config) *OnionBalanceController {
	c := &OnionBalanceController{clients: clients, config: cfg}
	c.dispatcher = NewDispatcher(onionBalanceComponent, c.reconcile)
	return c
}

// Dispatcher exposes the underlying dispatcher so main can Watch informers
// and call Run.
func (c *OnionBalanceController) Dispatcher() *Dispatcher { return c.dispatcher }

func (c *OnionBalanceController) reconcile(namespace, name string) error {
	stop := metrics.CountAndMeasure(onionBalanceComponent)
	defer stop()
	klog.V(1).InfoS("reconciling", "controller", onionBalanceComponent, "namespace", namespace, "name", name)

	ctx := context.Background()
	api := onionBalanceAPI(c.clients, namespace)

	object, ok, err := api.GetOpt(ctx, name)
	if err != nil {
		metrics.ReconcileFailure(onionBalanceComponent, "kube")
		return err
	}
	if !ok {
		return nil
	}

	labels, err := kube.TryLabels(onionBalanceComponent, object)
	if err != nil {
		metrics.ReconcileFailure(onionBalanceComponent, "missing object key")
		return err
	}
	selectorLabels, err := kube.TrySelectorLabels(onionBalanceComponent, object)
	if err != nil {
		metrics.ReconcileFailure(onionBalanceComponent, "missing object key")
		return err
	}

	torrc := generateOnionBalanceTorrc()
	configYaml, err := generateOnionBalanceConfigYaml(object)
	if err != nil {
		metrics.ReconcileFailure(onionBalanceComponent, "config")
		return err
	}
	annotations := kube.NewAnnotations().Add(configYaml).Add(torrc)

	state, err := c.reconcileOnionKey(ctx, namespace, object)
	if err != nil {
		metrics.ReconcileFailure(onionBalanceComponent, "kube")
		return err
	}

	if onionKey, ok := state.onionKey(); ok {
		if err := c.reconcileConfigMap(ctx, namespace, object, annotations, labels, torrc, configYaml); err != nil {
			metrics.ReconcileFailure(onionBalanceComponent, "kube")
			return err
		}
		if err := c.reconcileDeployment(ctx, namespace, object, annotations, labels, selectorLabels, onionKey); err != nil {
			metrics.ReconcileFailure(onionBalanceComponent, "kube")
			return err
		}
	}

	if err := c.reconcileStatus(ctx, api, object, state); err != nil {
		metrics.ReconcileFailure(onionBalanceComponent, "kube")
		return err
	}

	klog.V(1).InfoS("reconciled", "controller", onionBalanceComponent, "namespace", namespace, "name", name, "state", state.kind)

	delay := 5 * time.Second
	if state.kind == "running" {
		delay = time.Hour
	}
	c.dispatcher.EnqueueAfter(namespace, name, delay)
	return nil
}

// onionBalanceOnionKeyState mirrors the original's onion_balance::State
// enum.
type onionBalanceOnionKeyState struct {
	kind string
	key  *torv1.OnionKey
}

func (s onionBalanceOnionKeyState) onionKey() (*torv1.OnionKey, bool) {
	if s.kind != "running" {
		return nil, false
	}
	return s.key, true
}

func (c *OnionBalanceController) reconcileOnionKey(ctx context.Context, namespace string, object *torv1.OnionBalance) (onionBalanceOnionKeyState, error) {
	api := onionKeyAPI(c.clients, namespace)

	onionKey, ok, err := api.GetOpt(ctx, object.Spec.OnionKey.Name)
	if err != nil {
		return onionBalanceOnionKeyState{}, err
	}
	if !ok {
		return onionBalanceOnionKeyState{kind: "onion key not found"}, nil
	}
	if onionKey.Status.Hostname == nil {
		return onionBalanceOnionKeyState{kind: "onion key hostname not found"}, nil
	}
	return onionBalanceOnionKeyState{kind: "running", key: onionKey}, nil
}

func (c *OnionBalanceController) reconcileConfigMap(ctx context.Context, namespace string, object *torv1.OnionBalance, annotations kube.Annotations, labels kube.Labels, torrc tor.Torrc, configYaml tor.ConfigYaml) error {
	api := configMapAPI(c.clients, namespace)
	desired := generateOnionBalanceConfigMap(object, annotations, labels, torrc, configYaml)
	_, err := api.Sync(ctx, object, map[string]*corev1.ConfigMap{onionBalanceConfigMapName(object): desired})
	return err
}

func (c *OnionBalanceController) reconcileDeployment(ctx context.Context, namespace string, object *torv1.OnionBalance, annotations kube.Annotations, labels kube.Labels, selectorLabels kube.SelectorLabels, onionKey *torv1.OnionKey) error {
	api := deploymentAPI(c.clients, namespace)
	desired := generateOnionBalanceDeployment(object, c.config, annotations, labels, selectorLabels, onionKey)
	_, err := api.Sync(ctx, object, map[string]*appsv1.Deployment{onionBalanceDeploymentName(object): desired})
	return err
}

func (c *OnionBalanceController) reconcileStatus(ctx context.Context, api *kube.Api[*torv1.OnionBalance], object *torv1.OnionBalance, state onionBalanceOnionKeyState) error {
	status := torv1.OnionBalanceStatus{State: state.kind}
	_, err := api.UpdateStatus(ctx, object, status, object.Status)
	return err
}

func onionBalanceConfigMapName(object *torv1.OnionBalance) string {
	if object.Spec.ConfigMap != nil && object.Spec.ConfigMap.Name != nil {
		return *object.Spec.ConfigMap.Name
	}
	return object.Name
}

func onionBalanceDeploymentName(object *torv1.OnionBalance) string {
	if object.Spec.Deployment != nil && object.Spec.Deployment.Name != nil {
		return *object.Spec.Deployment.Name
	}
	return object.Name
}

func onionBalanceContainerResources(object *torv1.OnionBalance) (onionBalance, tor *corev1.ResourceRequirements) {
	containers := object.Spec.Deployment
	if containers == nil || containers.Containers == nil {
		return nil, nil
	}
	if containers.Containers.OnionBalance != nil {
		onionBalance = containers.Containers.OnionBalance.Resources
	}
	if containers.Containers.Tor != nil {
		tor = containers.Containers.Tor.Resources
	}
	return onionBalance, tor
}

func generateOnionBalanceTorrc() tor.Torrc {
	return tor.NewTorrcBuilder().SocksPort("9050").ControlPort("127.0.0.1:6666").Build()
}

func generateOnionBalanceConfigYaml(object *torv1.OnionBalance) (tor.ConfigYaml, error) {
	hostnames := make([]string, 0, len(object.Spec.OnionServices))
	for _, onionService := range object.Spec.OnionServices {
		hostnames = append(hostnames, onionService.OnionKey.Hostname)
	}
	return tor.NewConfigYaml(hostnames)
}

func generateOnionBalanceConfigMap(object *torv1.OnionBalance, annotations kube.Annotations, labels kube.Labels, torrc tor.Torrc, configYaml tor.ConfigYaml) *corev1.ConfigMap {
	out := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:        onionBalanceConfigMapName(object),
			Namespace:   object.Namespace,
			Annotations: annotations.Map(),
			Labels:      labels.Map(),
		},
		Data: map[string]string{
			"torrc":       torrc.String(),
			"config.yaml": configYaml.String(),
		},
	}
	stampOwnerOrPanic(out, object)
	return out
}

func generateOnionBalanceDeployment(object *torv1.OnionBalance, cfg config.Config, annotations kube.Annotations, labels kube.Labels, selectorLabels kube.SelectorLabels, onionKey *torv1.OnionKey) *appsv1.Deployment {
	replicas := int32(1)
	defaultMode400 := int32(0o400)
	secretOptional := false
	configMapOptional := false

	onionBalanceResources, torResources := onionBalanceContainerResources(object)

	out := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:        onionBalanceDeploymentName(object),
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
							Name:    "onionbalance",
							Command: []string{"/bin/bash"},
							Args: []string{"-c", strings.Join([]string{
								"mkdir -p /var/lib/tor/hidden_service",
								"chmod 400 /var/lib/tor/hidden_service",
								"cp /etc/secrets/* /var/lib/tor/hidden_service",
								"onionbalance -v info -c /usr/local/etc/onionbalance/config.yaml -p 6666",
							}, " && ")},
							Image:           cfg.OnionBalanceImage.URI,
							ImagePullPolicy: corev1.PullPolicy(cfg.OnionBalanceImage.PullPolicy),
							Resources:       deploymentContainerResources(onionBalanceResources),
							VolumeMounts: []corev1.VolumeMount{
								{Name: "etc-secrets", MountPath: "/etc/secrets", ReadOnly: true},
								{Name: "usr-local-etc-onionbalance", MountPath: "/usr/local/etc/onionbalance", ReadOnly: true},
							},
						},
						{
							Name:    "tor",
							Command: []string{"/bin/bash"},
							Args: []string{"-c", strings.Join([]string{
								"mkdir -p /var/lib/tor/hidden_service",
								"chmod 400 /var/lib/tor/hidden_service",
								"cp /etc/secrets/* /var/lib/tor/hidden_service",
								"tor -f /usr/local/etc/tor/torrc",
							}, " && ")},
							Image:           cfg.TorImage.URI,
							ImagePullPolicy: corev1.PullPolicy(cfg.TorImage.PullPolicy),
							LivenessProbe:   torSocksProbe(),
							ReadinessProbe:  torSocksProbe(),
							Resources:       deploymentContainerResources(torResources),
							VolumeMounts: []corev1.VolumeMount{
								{Name: "etc-secrets", MountPath: "/etc/secrets", ReadOnly: true},
								{Name: "usr-local-etc-tor", MountPath: "/usr/local/etc/tor", ReadOnly: true},
							},
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: "etc-secrets",
							VolumeSource: corev1.VolumeSource{
								Secret: &corev1.SecretVolumeSource{
									SecretName: onionKey.Spec.Secret.Name,
									Items: []corev1.KeyToPath{
										{Key: "hostname", Mode: &defaultMode400, Path: "hostname"},
										{Key: "hs_ed25519_public_key", Mode: &defaultMode400, Path: "hs_ed25519_public_key"},
										{Key: "hs_ed25519_secret_key", Mode: &defaultMode400, Path: "hs_ed25519_secret_key"},
									},
									DefaultMode: &defaultMode400,
									Optional:    &secretOptional,
								},
							},
						},
						{
							Name: "usr-local-etc-onionbalance",
							VolumeSource: corev1.VolumeSource{
								ConfigMap: &corev1.ConfigMapVolumeSource{
									LocalObjectReference: corev1.LocalObjectReference{Name: onionBalanceConfigMapName(object)},
									Items:                []corev1.KeyToPath{{Key: "config.yaml", Mode: &defaultMode400, Path: "config.yaml"}},
									DefaultMode:          &defaultMode400,
									Optional:             &configMapOptional,
								},
							},
						},
						{
							Name: "usr-local-etc-tor",
							VolumeSource: corev1.VolumeSource{
								ConfigMap: &corev1.ConfigMapVolumeSource{
									LocalObjectReference: corev1.LocalObjectReference{Name: onionBalanceConfigMapName(object)},
									Items:                []corev1.KeyToPath{{Key: "torrc", Mode: &defaultMode400, Path: "torrc"}},
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
