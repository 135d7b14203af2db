package controllers

import (
	"context"
	"strings"
	"time"

	autoscalingv2 "k8s.io/api/autoscaling/v2"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/klog/v2"

	torv1 "github.com/agabani/tor-operator/pkg/apis/tor/v1"
	"github.com/agabani/tor-operator/pkg/config"
	kube "github.com/agabani/tor-operator/pkg/kubernetes"
	"github.com/agabani/tor-operator/pkg/metrics"
	"github.com/agabani/tor-operator/pkg/tor"
)

const torProxyComponent = "tor-proxy"

// TorProxyController reconciles TorProxies: a fleet of plain (non-hidden-
// service) tor clients fronted by a Service and optionally autoscaled,
// giving in-cluster workloads a SOCKS/HTTP-tunnel egress proxy into the Tor
// network.
//
// Grounded on original_source/src/tor_proxy.rs's reconciler/generate_*
// functions in full.
type TorProxyController struct {
	clients    *Clients
	config     config.Config
	dispatcher *Dispatcher
}

// NewTorProxyController builds the controller; start it by calling Run on
// its Dispatcher.
func NewTorProxyController(clients *Clients, cfg config.Config) *TorProxyController {
	c := &TorProxyController{clients: clients, config: cfg}
	c.dispatcher = NewDispatcher(torProxyComponent, c.reconcile)
	return c
}

// Dispatcher exposes the underlying dispatcher so main can Watch informers
// and call Run.
func (c *TorProxyController) Dispatcher() *Dispatcher { return c.dispatcher }

func (c *TorProxyController) reconcile(namespace, name string) error {
	stop := metrics.CountAndMeasure(torProxyComponent)
	defer stop()
	klog.V(1).InfoS("reconciling", "controller", torProxyComponent, "namespace", namespace, "name", name)

	ctx := context.Background()
	api := torProxyAPI(c.clients, namespace)

	object, ok, err := api.GetOpt(ctx, name)
	if err != nil {
		metrics.ReconcileFailure(torProxyComponent, "kube")
		return err
	}
	if !ok {
		return nil
	}

	labels, err := kube.TryLabels(torProxyComponent, object)
	if err != nil {
		metrics.ReconcileFailure(torProxyComponent, "missing object key")
		return err
	}
	selectorLabels, err := kube.TrySelectorLabels(torProxyComponent, object)
	if err != nil {
		metrics.ReconcileFailure(torProxyComponent, "missing object key")
		return err
	}

	torrc := generateTorProxyTorrc(object)
	annotations := kube.NewAnnotations().Add(torrc)

	state := torProxyState{kind: "ports not found"}
	if httpTunnelPorts, socksPorts := torProxyServicePorts(object); len(httpTunnelPorts) > 0 || len(socksPorts) > 0 {
		state = torProxyState{kind: "initialized", serviceName: torProxyServiceName(object)}
	}

	if state.kind == "initialized" {
		if err := c.reconcileConfigMap(ctx, namespace, object, annotations, labels, torrc); err != nil {
			metrics.ReconcileFailure(torProxyComponent, "kube")
			return err
		}
		if err := c.reconcileDeployment(ctx, namespace, object, annotations, labels, selectorLabels); err != nil {
			metrics.ReconcileFailure(torProxyComponent, "kube")
			return err
		}
		if err := c.reconcileHorizontalPodAutoscaler(ctx, namespace, object, labels); err != nil {
			metrics.ReconcileFailure(torProxyComponent, "kube")
			return err
		}
		if err := c.reconcileService(ctx, namespace, object, annotations, labels, selectorLabels); err != nil {
			metrics.ReconcileFailure(torProxyComponent, "kube")
			return err
		}
	}

	if err := c.reconcileStatus(ctx, api, object, state, selectorLabels); err != nil {
		metrics.ReconcileFailure(torProxyComponent, "kube")
		return err
	}

	klog.V(1).InfoS("reconciled", "controller", torProxyComponent, "namespace", namespace, "name", name, "state", state.kind)

	delay := 5 * time.Second
	if state.kind == "initialized" {
		delay = time.Hour
	}
	c.dispatcher.EnqueueAfter(namespace, name, delay)
	return nil
}

// torProxyState mirrors the original's tor_proxy::State enum.
type torProxyState struct {
	kind        string
	serviceName string
}

func (s torProxyState) conditions(now metav1.Time) []metav1.Condition {
	switch s.kind {
	case "ports not found":
		return []metav1.Condition{
			{Type: "Service", Status: metav1.ConditionFalse, Reason: "PortsNotFound", Message: "spec.service.ports is empty", LastTransitionTime: now},
		}
	case "initialized":
		return []metav1.Condition{
			{Type: "Service", Status: metav1.ConditionTrue, Reason: "Ready", Message: "service " + s.serviceName + " is ready", LastTransitionTime: now},
			{Type: "Initialized", Status: metav1.ConditionTrue, Reason: "Initialized", Message: "tor proxy is initialized", LastTransitionTime: now},
		}
	default:
		return nil
	}
}

func (c *TorProxyController) reconcileConfigMap(ctx context.Context, namespace string, object *torv1.TorProxy, annotations kube.Annotations, labels kube.Labels, torrc tor.Torrc) error {
	api := configMapAPI(c.clients, namespace)
	desired := generateTorProxyConfigMap(object, annotations, labels, torrc)
	_, err := api.Sync(ctx, object, map[string]*corev1.ConfigMap{torProxyConfigMapName(object): desired})
	return err
}

func (c *TorProxyController) reconcileDeployment(ctx context.Context, namespace string, object *torv1.TorProxy, annotations kube.Annotations, labels kube.Labels, selectorLabels kube.SelectorLabels) error {
	api := deploymentAPI(c.clients, namespace)
	desired := generateTorProxyDeployment(object, c.config, annotations, labels, selectorLabels)
	_, err := api.Sync(ctx, object, map[string]*appsv1.Deployment{torProxyDeploymentName(object): desired})
	return err
}

func (c *TorProxyController) reconcileHorizontalPodAutoscaler(ctx context.Context, namespace string, object *torv1.TorProxy, labels kube.Labels) error {
	api := horizontalPodAutoscalerAPI(c.clients, namespace)

	desired := map[string]*autoscalingv2.HorizontalPodAutoscaler{}
	if object.Spec.HorizontalPodAutoscaler != nil {
		hpa := generateTorProxyHorizontalPodAutoscaler(object, labels)
		desired[torProxyHorizontalPodAutoscalerName(object)] = hpa
	}

	_, deprecated, err := api.Update(ctx, object, desired)
	if err != nil {
		return err
	}
	return api.DeleteMany(ctx, deprecated)
}

func (c *TorProxyController) reconcileService(ctx context.Context, namespace string, object *torv1.TorProxy, annotations kube.Annotations, labels kube.Labels, selectorLabels kube.SelectorLabels) error {
	api := serviceAPI(c.clients, namespace)
	desired := generateTorProxyService(object, annotations, labels, selectorLabels)
	_, err := api.Sync(ctx, object, map[string]*corev1.Service{torProxyServiceName(object): desired})
	return err
}

func (c *TorProxyController) reconcileStatus(ctx context.Context, api *kube.Api[*torv1.TorProxy], object *torv1.TorProxy, state torProxyState, selectorLabels kube.SelectorLabels) error {
	now := metav1.Now()
	conditions := kube.MergeConditions(object.Status.Conditions, state.conditions(now))

	status := torv1.TorProxyStatus{
		Conditions:    conditions,
		LabelSelector: selectorLabels.String(),
		Replicas:      torProxyReplicas(object),
		Summary:       torProxyConditionsSummary(conditions),
	}
	if state.kind == "initialized" {
		hostname := state.serviceName
		status.Hostname = &hostname
	}

	_, err := api.UpdateStatus(ctx, object, status, object.Status)
	return err
}

// torProxyConditionsSummary folds every condition's type into its reason,
// mirroring the original's reconcile_tor_proxy summary fold.
func torProxyConditionsSummary(conditions []metav1.Condition) map[string]string {
	if len(conditions) == 0 {
		return nil
	}
	summary := make(map[string]string, len(conditions))
	for _, c := range conditions {
		summary[c.Type] = c.Reason
	}
	return summary
}

func torProxyReplicas(object *torv1.TorProxy) int32 {
	if object.Spec.Deployment != nil && object.Spec.Deployment.Replicas > 0 {
		return object.Spec.Deployment.Replicas
	}
	return 3
}

func torProxyConfigMapName(object *torv1.TorProxy) string {
	if object.Spec.ConfigMap != nil && object.Spec.ConfigMap.Name != nil {
		return *object.Spec.ConfigMap.Name
	}
	return object.Name
}

func torProxyDeploymentName(object *torv1.TorProxy) string {
	if object.Spec.Deployment != nil && object.Spec.Deployment.Name != nil {
		return *object.Spec.Deployment.Name
	}
	return object.Name
}

func torProxyHorizontalPodAutoscalerName(object *torv1.TorProxy) string {
	if object.Spec.HorizontalPodAutoscaler != nil && object.Spec.HorizontalPodAutoscaler.Name != nil {
		return *object.Spec.HorizontalPodAutoscaler.Name
	}
	return object.Name
}

func torProxyServiceName(object *torv1.TorProxy) string {
	if object.Spec.Service.Name != nil {
		return *object.Spec.Service.Name
	}
	return object.Name
}

func torProxyDeploymentContainerTorResources(object *torv1.TorProxy) *corev1.ResourceRequirements {
	deployment := object.Spec.Deployment
	if deployment == nil || deployment.Containers == nil || deployment.Containers.Tor == nil {
		return nil
	}
	return deployment.Containers.Tor.Resources
}

// torProxyServicePorts splits the spec's ports by protocol, preserving spec
// order within each group, mirroring the original's service_ports_http_tunnel
// / service_ports_socks filters.
func torProxyServicePorts(object *torv1.TorProxy) (httpTunnel, socks []torv1.TorProxySpecServicePort) {
	for _, port := range object.Spec.Service.Ports {
		switch port.Protocol {
		case "HTTP_TUNNEL":
			httpTunnel = append(httpTunnel, port)
		case "SOCKS":
			socks = append(socks, port)
		}
	}
	return httpTunnel, socks
}

// generateTorProxyTorrc builds the torrc for the tor container: an
// HTTPTunnelPort line if any HTTP_TUNNEL port is configured, a SocksPort
// line if any SOCKS port is configured.
func generateTorProxyTorrc(object *torv1.TorProxy) tor.Torrc {
	httpTunnelPorts, socksPorts := torProxyServicePorts(object)

	builder := tor.NewTorrcBuilder()
	if len(httpTunnelPorts) > 0 {
		builder = builder.HTTPTunnelPort("0.0.0.0:1080")
	}
	if len(socksPorts) > 0 {
		builder = builder.SocksPort("0.0.0.0:9050")
	}
	return builder.Build()
}

func generateTorProxyConfigMap(object *torv1.TorProxy, annotations kube.Annotations, labels kube.Labels, torrc tor.Torrc) *corev1.ConfigMap {
	mergedAnnotations := annotations.Map()
	mergedLabels := labels.Map()
	if object.Spec.ConfigMap != nil {
		mergedAnnotations = mergeStringMaps(mergedAnnotations, object.Spec.ConfigMap.Annotations)
		mergedLabels = mergeStringMaps(mergedLabels, object.Spec.ConfigMap.Labels)
	}

	out := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:        torProxyConfigMapName(object),
			Namespace:   object.Namespace,
			Annotations: mergedAnnotations,
			Labels:      mergedLabels,
		},
		Data: map[string]string{"torrc": torrc.String()},
	}
	stampOwnerOrPanic(out, object)
	return out
}

func generateTorProxyDeployment(object *torv1.TorProxy, cfg config.Config, annotations kube.Annotations, labels kube.Labels, selectorLabels kube.SelectorLabels) *appsv1.Deployment {
	replicas := torProxyReplicas(object)
	defaultMode400 := int32(0o400)
	configMapOptional := false

	mergedAnnotations := annotations.Map()
	mergedLabels := labels.Map()

	var affinity *corev1.Affinity
	var imagePullSecrets []corev1.LocalObjectReference
	var nodeSelector map[string]string
	var tolerations []corev1.Toleration
	var topologySpreadConstraints []corev1.TopologySpreadConstraint

	if deployment := object.Spec.Deployment; deployment != nil {
		mergedAnnotations = mergeStringMaps(mergedAnnotations, deployment.Annotations)
		mergedLabels = mergeStringMaps(mergedLabels, deployment.Labels)
		affinity = deployment.Affinity
		imagePullSecrets = deployment.ImagePullSecrets
		nodeSelector = deployment.NodeSelector
		tolerations = deployment.Tolerations
		topologySpreadConstraints = deployment.TopologySpreadConstraints
	}

	out := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:        torProxyDeploymentName(object),
			Namespace:   object.Namespace,
			Annotations: mergedAnnotations,
			Labels:      mergedLabels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: selectorLabels.Map()},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Annotations: mergedAnnotations,
					Labels:      mergedLabels,
				},
				Spec: corev1.PodSpec{
					Affinity:                  affinity,
					ImagePullSecrets:          imagePullSecrets,
					NodeSelector:              nodeSelector,
					Tolerations:               tolerations,
					TopologySpreadConstraints: topologySpreadConstraints,
					Containers: []corev1.Container{
						{
							Name:    "tor",
							Command: []string{"/bin/bash"},
							Args: []string{"-c", strings.Join([]string{
								"mkdir -p /usr/local/etc/tor",
								"cp /etc/configs/torrc /usr/local/etc/tor/torrc",
								"tor -f /usr/local/etc/tor/torrc",
							}, " && ")},
							Image:           cfg.TorImage.URI,
							ImagePullPolicy: corev1.PullPolicy(cfg.TorImage.PullPolicy),
							LivenessProbe:   torSocksProbe(),
							ReadinessProbe:  torSocksProbe(),
							Resources:       deploymentContainerResources(torProxyDeploymentContainerTorResources(object)),
							Ports: []corev1.ContainerPort{
								{Name: "http-tunnel", ContainerPort: 1080, Protocol: corev1.ProtocolTCP},
								{Name: "socks", ContainerPort: 9050, Protocol: corev1.ProtocolTCP},
							},
							VolumeMounts: []corev1.VolumeMount{
								{Name: "etc-configs", MountPath: "/etc/configs", ReadOnly: true},
							},
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: "etc-configs",
							VolumeSource: corev1.VolumeSource{
								ConfigMap: &corev1.ConfigMapVolumeSource{
									LocalObjectReference: corev1.LocalObjectReference{Name: torProxyConfigMapName(object)},
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

// generateTorProxyHorizontalPodAutoscaler builds the optional HPA targeting
// this TorProxy's own Deployment by name. Defaults to
// 80% average CPU utilization when spec.metrics is nil, mirroring the
// original's generate_horizontal_pod_autoscaler.
func generateTorProxyHorizontalPodAutoscaler(object *torv1.TorProxy, labels kube.Labels) *autoscalingv2.HorizontalPodAutoscaler {
	hpaSpec := object.Spec.HorizontalPodAutoscaler

	mergedAnnotations := mergeStringMaps(nil, hpaSpec.Annotations)
	mergedLabels := mergeStringMaps(labels.Map(), hpaSpec.Labels)

	minReplicas := int32(1)
	if hpaSpec.MinReplicas != nil {
		minReplicas = *hpaSpec.MinReplicas
	}

	metrics := hpaSpec.Metrics
	if len(metrics) == 0 {
		cpuUtilization := int32(80)
		metrics = []autoscalingv2.MetricSpec{
			{
				Type: autoscalingv2.ResourceMetricSourceType,
				Resource: &autoscalingv2.ResourceMetricSource{
					Name: corev1.ResourceCPU,
					Target: autoscalingv2.MetricTarget{
						Type:               autoscalingv2.UtilizationMetricType,
						AverageUtilization: &cpuUtilization,
					},
				},
			},
		}
	}

	out := &autoscalingv2.HorizontalPodAutoscaler{
		ObjectMeta: metav1.ObjectMeta{
			Name:        torProxyHorizontalPodAutoscalerName(object),
			Namespace:   object.Namespace,
			Annotations: mergedAnnotations,
			Labels:      mergedLabels,
		},
		Spec: autoscalingv2.HorizontalPodAutoscalerSpec{
			ScaleTargetRef: autoscalingv2.CrossVersionObjectReference{
				APIVersion: "apps/v1",
				Kind:       "Deployment",
				Name:       torProxyDeploymentName(object),
			},
			Behavior:    hpaSpec.Behavior,
			MaxReplicas: hpaSpec.MaxReplicas,
			MinReplicas: &minReplicas,
			Metrics:     metrics,
		},
	}
	stampOwnerOrPanic(out, object)
	return out
}

// generateTorProxyService builds the fronting Service: HTTP_TUNNEL ports
// first, then SOCKS ports, each port's targetPort naming the Deployment's
// matching named container port.
func generateTorProxyService(object *torv1.TorProxy, annotations kube.Annotations, labels kube.Labels, selectorLabels kube.SelectorLabels) *corev1.Service {
	httpTunnelPorts, socksPorts := torProxyServicePorts(object)

	mergedAnnotations := annotations.Map()
	mergedLabels := labels.Map()
	mergedAnnotations = mergeStringMaps(mergedAnnotations, object.Spec.Service.Annotations)
	mergedLabels = mergeStringMaps(mergedLabels, object.Spec.Service.Labels)

	ports := make([]corev1.ServicePort, 0, len(httpTunnelPorts)+len(socksPorts))
	for _, p := range httpTunnelPorts {
		ports = append(ports, corev1.ServicePort{
			Name:       p.Name,
			Port:       p.Port,
			Protocol:   corev1.ProtocolTCP,
			TargetPort: intstr.FromString("http-tunnel"),
		})
	}
	for _, p := range socksPorts {
		ports = append(ports, corev1.ServicePort{
			Name:       p.Name,
			Port:       p.Port,
			Protocol:   corev1.ProtocolTCP,
			TargetPort: intstr.FromString("socks"),
		})
	}

	out := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:        torProxyServiceName(object),
			Namespace:   object.Namespace,
			Annotations: mergedAnnotations,
			Labels:      mergedLabels,
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: selectorLabels.Map(),
			Ports:    ports,
		},
	}
	stampOwnerOrPanic(out, object)
	return out
}

// mergeStringMaps returns a new map holding base's entries overridden by
// override's, leaving both inputs untouched. A nil result collapses to nil
// if both inputs are empty, so ObjectMeta.Annotations/Labels stay unset
// rather than an empty non-nil map.
func mergeStringMaps(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
