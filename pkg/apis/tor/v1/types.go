// Package v1 contains the tor.agabani.co.uk/v1 API types: OnionKey,
// OnionService, OnionBalance, TorIngress and TorProxy.
package v1

import (
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// OnionKey is an abstraction of a Tor Ed25519 onion key, backed by a Secret
// holding the hostname, public key and (optionally operator-managed)
// secret key.
type OnionKey struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   OnionKeySpec   `json:"spec"`
	Status OnionKeyStatus `json:"status,omitempty"`
}

// OnionKeySpec is the desired state of an OnionKey.
type OnionKeySpec struct {
	// AutoGenerate, when true, has the operator generate and maintain a
	// random onion key in Secret, recreating any missing or malformed
	// part of it. Default: false.
	AutoGenerate *bool `json:"autoGenerate,omitempty"`

	// Secret names the Secret holding hostname, hs_ed25519_public_key
	// and hs_ed25519_secret_key.
	Secret OnionKeySpecSecret `json:"secret"`
}

// OnionKeySpecSecret names the backing Secret.
type OnionKeySpecSecret struct {
	// Name of the Secret. Secret data must have keys `hostname`,
	// `hs_ed25519_public_key` and `hs_ed25519_secret_key`.
	Name string `json:"name"`
}

// OnionKeyStatus is the observed state of an OnionKey.
type OnionKeyStatus struct {
	// Hostname is only populated once State is "valid".
	Hostname *string `json:"hostname,omitempty"`

	// AutoGenerated reports whether the operator generated this key.
	AutoGenerated bool `json:"autoGenerated"`

	// State is a human readable description of state. One of:
	// "secret not found", "secret key not found",
	// "secret key malformed: (reason)", "public key not found",
	// "public key malformed: (reason)", "public key mismatch",
	// "hostname not found", "hostname malformed: (reason)",
	// "hostname mismatch", "valid".
	State string `json:"state"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// OnionKeyList is a list of OnionKeys.
type OnionKeyList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []OnionKey `json:"items"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// OnionService is a single Tor hidden service: a ConfigMap holding torrc
// (and, if balanced, ob_config), and a Deployment running a tor client
// mounting the secret named by .spec.onionKey.
type OnionService struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   OnionServiceSpec   `json:"spec"`
	Status OnionServiceStatus `json:"status,omitempty"`
}

// OnionServiceSpec is the desired state of an OnionService.
type OnionServiceSpec struct {
	ConfigMap   *OnionServiceSpecConfigMap   `json:"configMap,omitempty"`
	Deployment  *OnionServiceSpecDeployment  `json:"deployment,omitempty"`

	// OnionBalance names the OnionBalance this OnionService belongs to,
	// if any. Default: none.
	OnionBalance *OnionServiceSpecOnionBalance `json:"onionBalance,omitempty"`

	OnionKey OnionServiceSpecOnionKey `json:"onionKey"`

	// Ports are the Hidden Service ports this OnionService exposes.
	Ports []OnionServiceSpecHiddenServicePort `json:"ports"`
}

// OnionServiceSpecConfigMap configures the backing ConfigMap.
type OnionServiceSpecConfigMap struct {
	// Name of the ConfigMap. Default: name of the OnionService.
	Name *string `json:"name,omitempty"`
}

// OnionServiceSpecDeployment configures the backing Deployment.
type OnionServiceSpecDeployment struct {
	Containers *OnionServiceSpecDeploymentContainers `json:"containers,omitempty"`

	// Name of the Deployment. Default: name of the OnionService.
	Name *string `json:"name,omitempty"`
}

// OnionServiceSpecDeploymentContainers configures the Deployment's containers.
type OnionServiceSpecDeploymentContainers struct {
	Tor *OnionServiceSpecDeploymentContainersTor `json:"tor,omitempty"`
}

// OnionServiceSpecDeploymentContainersTor configures the tor container.
type OnionServiceSpecDeploymentContainersTor struct {
	Resources *corev1.ResourceRequirements `json:"resources,omitempty"`
}

// OnionServiceSpecOnionBalance references the OnionBalance this service is
// load balanced by.
type OnionServiceSpecOnionBalance struct {
	OnionKey OnionServiceSpecOnionBalanceOnionKey `json:"onionKey"`
}

// OnionServiceSpecOnionBalanceOnionKey identifies the OnionBalance's key by
// hostname (e.g. "abcdefg.onion").
type OnionServiceSpecOnionBalanceOnionKey struct {
	Hostname string `json:"hostname"`
}

// OnionServiceSpecOnionKey references the OnionKey backing this service.
type OnionServiceSpecOnionKey struct {
	Name string `json:"name"`
}

// OnionServiceSpecHiddenServicePort maps a hidden-service virtual port to a
// backend target address.
type OnionServiceSpecHiddenServicePort struct {
	// Target is the address incoming traffic is redirected to, e.g.
	// "example.default.svc.cluster.local:80".
	Target string `json:"target"`

	// Virtport is the virtual port the onion service listens on, e.g. 80.
	Virtport int32 `json:"virtport"`
}

// OnionServiceStatus is the observed state of an OnionService.
type OnionServiceStatus struct {
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// Hostname is only populated once the backing OnionKey is valid.
	Hostname *string `json:"hostname,omitempty"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// OnionServiceList is a list of OnionServices.
type OnionServiceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []OnionService `json:"items"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// OnionBalance fronts a set of OnionServices behind a single master onion
// address, running the onionbalance daemon alongside a tor client.
type OnionBalance struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   OnionBalanceSpec   `json:"spec"`
	Status OnionBalanceStatus `json:"status,omitempty"`
}

// OnionBalanceSpec is the desired state of an OnionBalance.
type OnionBalanceSpec struct {
	ConfigMap  *OnionBalanceSpecConfigMap  `json:"configMap,omitempty"`
	Deployment *OnionBalanceSpecDeployment `json:"deployment,omitempty"`
	OnionKey   OnionBalanceSpecOnionKey    `json:"onionKey"`

	// OnionServices are the backends load balanced by this OnionBalance.
	OnionServices []OnionBalanceSpecOnionService `json:"onionServices"`
}

// OnionBalanceSpecConfigMap configures the backing ConfigMap.
type OnionBalanceSpecConfigMap struct {
	// Name of the ConfigMap. Default: name of the OnionBalance.
	Name *string `json:"name,omitempty"`
}

// OnionBalanceSpecDeployment configures the backing Deployment.
type OnionBalanceSpecDeployment struct {
	Containers *OnionBalanceSpecDeploymentContainers `json:"containers,omitempty"`

	// Name of the Deployment. Default: name of the OnionBalance.
	Name *string `json:"name,omitempty"`
}

// OnionBalanceSpecDeploymentContainers configures the Deployment's containers.
type OnionBalanceSpecDeploymentContainers struct {
	OnionBalance *OnionBalanceSpecDeploymentContainersOnionBalance `json:"onionBalance,omitempty"`
	Tor          *OnionBalanceSpecDeploymentContainersTor          `json:"tor,omitempty"`
}

// OnionBalanceSpecDeploymentContainersOnionBalance configures the
// onionbalance container.
type OnionBalanceSpecDeploymentContainersOnionBalance struct {
	Resources *corev1.ResourceRequirements `json:"resources,omitempty"`
}

// OnionBalanceSpecDeploymentContainersTor configures the tor container.
type OnionBalanceSpecDeploymentContainersTor struct {
	Resources *corev1.ResourceRequirements `json:"resources,omitempty"`
}

// OnionBalanceSpecOnionKey references the OnionKey backing this OnionBalance.
type OnionBalanceSpecOnionKey struct {
	Name string `json:"name"`
}

// OnionBalanceSpecOnionService is a single load-balanced backend.
type OnionBalanceSpecOnionService struct {
	OnionKey OnionBalanceSpecOnionServiceOnionKey `json:"onionKey"`
}

// OnionBalanceSpecOnionServiceOnionKey identifies a backend by hostname.
type OnionBalanceSpecOnionServiceOnionKey struct {
	Hostname string `json:"hostname"`
}

// OnionBalanceStatus is the observed state of an OnionBalance.
type OnionBalanceStatus struct {
	// State is a human readable description of state: one of
	// "onion key not found", "onion key hostname not found", "running".
	State string `json:"state"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// OnionBalanceList is a list of OnionBalances.
type OnionBalanceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []OnionBalance `json:"items"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// TorIngress is a collection of OnionServices fronted by a single
// OnionBalance; the operator generates a random OnionKey per OnionService
// replica and requires the user to provide only the OnionBalance's key.
type TorIngress struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   TorIngressSpec   `json:"spec"`
	Status TorIngressStatus `json:"status,omitempty"`
}

// TorIngressSpec is the desired state of a TorIngress.
type TorIngressSpec struct {
	OnionBalance TorIngressSpecOnionBalance `json:"onionBalance"`
	OnionService TorIngressSpecOnionService `json:"onionService"`
}

// TorIngressSpecOnionBalance configures the single generated OnionBalance.
type TorIngressSpecOnionBalance struct {
	ConfigMap  *TorIngressSpecOnionBalanceConfigMap  `json:"configMap,omitempty"`
	Deployment *TorIngressSpecOnionBalanceDeployment `json:"deployment,omitempty"`

	// Name of the OnionBalance. Default: name of the TorIngress.
	Name *string `json:"name,omitempty"`

	OnionKey TorIngressSpecOnionBalanceOnionKey `json:"onionKey"`
}

// TorIngressSpecOnionBalanceConfigMap configures the OnionBalance's ConfigMap.
type TorIngressSpecOnionBalanceConfigMap struct {
	// Name of the ConfigMap. Default: name of the TorIngress.
	Name *string `json:"name,omitempty"`
}

// TorIngressSpecOnionBalanceDeployment configures the OnionBalance's Deployment.
type TorIngressSpecOnionBalanceDeployment struct {
	Containers *TorIngressSpecOnionBalanceDeploymentContainers `json:"containers,omitempty"`

	// Name of the Deployment. Default: name of the TorIngress.
	Name *string `json:"name,omitempty"`
}

// TorIngressSpecOnionBalanceDeploymentContainers configures the
// OnionBalance Deployment's containers.
type TorIngressSpecOnionBalanceDeploymentContainers struct {
	OnionBalance *TorIngressSpecOnionBalanceDeploymentContainersOnionBalance `json:"onionBalance,omitempty"`
	Tor          *TorIngressSpecOnionBalanceDeploymentContainersTor          `json:"tor,omitempty"`
}

// TorIngressSpecOnionBalanceDeploymentContainersOnionBalance configures the
// onionbalance container.
type TorIngressSpecOnionBalanceDeploymentContainersOnionBalance struct {
	Resources *corev1.ResourceRequirements `json:"resources,omitempty"`
}

// TorIngressSpecOnionBalanceDeploymentContainersTor configures the tor
// container.
type TorIngressSpecOnionBalanceDeploymentContainersTor struct {
	Resources *corev1.ResourceRequirements `json:"resources,omitempty"`
}

// TorIngressSpecOnionBalanceOnionKey names the user-provided OnionKey the
// generated OnionBalance will use.
type TorIngressSpecOnionBalanceOnionKey struct {
	Name string `json:"name"`
}

// TorIngressSpecOnionService configures the generated OnionService replicas.
type TorIngressSpecOnionService struct {
	ConfigMap  *TorIngressSpecOnionServiceConfigMap  `json:"configMap,omitempty"`
	Deployment *TorIngressSpecOnionServiceDeployment `json:"deployment,omitempty"`

	// NamePrefix of each generated OnionService, suffixed "-<i>".
	// Default: name of the TorIngress.
	NamePrefix *string `json:"namePrefix,omitempty"`

	OnionKey *TorIngressSpecOnionServiceOnionKey `json:"onionKey,omitempty"`

	Ports []TorIngressSpecOnionServicePort `json:"ports"`

	// Replicas is the number of OnionService (and backing OnionKey)
	// instances to generate. Default: 3.
	Replicas int32 `json:"replicas"`
}

// TorIngressSpecOnionServiceConfigMap configures each generated ConfigMap.
type TorIngressSpecOnionServiceConfigMap struct {
	// NamePrefix of each generated ConfigMap. Default: name of the TorIngress.
	NamePrefix *string `json:"namePrefix,omitempty"`
}

// TorIngressSpecOnionServiceDeployment configures each generated Deployment.
type TorIngressSpecOnionServiceDeployment struct {
	Containers *TorIngressSpecOnionServiceDeploymentContainers `json:"containers,omitempty"`

	// NamePrefix of each generated Deployment. Default: name of the TorIngress.
	NamePrefix *string `json:"namePrefix,omitempty"`
}

// TorIngressSpecOnionServiceDeploymentContainers configures each generated
// Deployment's containers.
type TorIngressSpecOnionServiceDeploymentContainers struct {
	Tor *TorIngressSpecOnionServiceDeploymentContainersTor `json:"tor,omitempty"`
}

// TorIngressSpecOnionServiceDeploymentContainersTor configures the tor container.
type TorIngressSpecOnionServiceDeploymentContainersTor struct {
	Resources *corev1.ResourceRequirements `json:"resources,omitempty"`
}

// TorIngressSpecOnionServiceOnionKey configures each generated OnionKey.
type TorIngressSpecOnionServiceOnionKey struct {
	// NamePrefix of each generated OnionKey. Default: name of the TorIngress.
	NamePrefix *string `json:"namePrefix,omitempty"`

	Secret *TorIngressSpecOnionServiceOnionKeySecret `json:"secret,omitempty"`
}

// TorIngressSpecOnionServiceOnionKeySecret configures each generated Secret.
type TorIngressSpecOnionServiceOnionKeySecret struct {
	// NamePrefix of each generated Secret. Default: name of the TorIngress.
	NamePrefix *string `json:"namePrefix,omitempty"`
}

// TorIngressSpecOnionServicePort maps a hidden-service virtual port to a
// backend target, applied identically to every generated OnionService.
type TorIngressSpecOnionServicePort struct {
	Target   string `json:"target"`
	Virtport int32  `json:"virtport"`
}

// TorIngressStatus is the observed state of a TorIngress.
type TorIngressStatus struct {
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// Hostname is the OnionBalance's OnionKey hostname, only populated once
	// the TorIngress is initialized (every OnionKey has a hostname).
	Hostname *string `json:"hostname,omitempty"`

	// LabelSelector is used by the HorizontalPodAutoscaler /scale
	// subresource to collect metrics.
	LabelSelector string `json:"labelSelector"`

	Replicas int32 `json:"replicas"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// TorIngressList is a list of TorIngresses.
type TorIngressList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []TorIngress `json:"items"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// TorProxy is a collection of plain tor clients (no hidden service) fronted
// by a Service and optionally autoscaled, used to give in-cluster workloads
// a SOCKS/HTTP-tunnel egress proxy into the Tor network.
type TorProxy struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   TorProxySpec   `json:"spec"`
	Status TorProxyStatus `json:"status,omitempty"`
}

// TorProxySpec is the desired state of a TorProxy.
type TorProxySpec struct {
	ConfigMap               *TorProxySpecConfigMap           `json:"configMap,omitempty"`
	Deployment               *TorProxySpecDeployment          `json:"deployment,omitempty"`
	HorizontalPodAutoscaler *TorProxyHorizontalPodAutoscaler `json:"horizontalPodAutoscaler,omitempty"`
	Service                 TorProxySpecService               `json:"service"`
}

// TorProxySpecConfigMap configures the backing ConfigMap.
type TorProxySpecConfigMap struct {
	Annotations map[string]string `json:"annotations,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`

	// Name of the ConfigMap. Default: name of the TorProxy.
	Name *string `json:"name,omitempty"`
}

// TorProxySpecDeployment configures the backing Deployment.
type TorProxySpecDeployment struct {
	// Affinity, if specified, constrains pod scheduling.
	Affinity    *corev1.Affinity  `json:"affinity,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`

	Containers *TorProxySpecDeploymentContainers `json:"containers,omitempty"`

	// ImagePullSecrets references secrets used to pull the tor image.
	ImagePullSecrets []corev1.LocalObjectReference `json:"imagePullSecrets,omitempty"`

	Labels map[string]string `json:"labels,omitempty"`

	// Name of the Deployment. Default: name of the TorProxy.
	Name *string `json:"name,omitempty"`

	// NodeSelector constrains which nodes pods may be scheduled on.
	NodeSelector map[string]string `json:"nodeSelector,omitempty"`

	// Replicas is the number of tor client instances. Default: 3.
	Replicas int32 `json:"replicas"`

	// Tolerations, if specified, are the pod's tolerations.
	Tolerations []corev1.Toleration `json:"tolerations,omitempty"`

	// TopologySpreadConstraints describes how pods ought to spread
	// across topology domains.
	TopologySpreadConstraints []corev1.TopologySpreadConstraint `json:"topologySpreadConstraints,omitempty"`
}

// TorProxySpecDeploymentContainers configures the Deployment's containers.
type TorProxySpecDeploymentContainers struct {
	Tor *TorProxySpecDeploymentContainersTor `json:"tor,omitempty"`
}

// TorProxySpecDeploymentContainersTor configures the tor container.
type TorProxySpecDeploymentContainersTor struct {
	Resources *corev1.ResourceRequirements `json:"resources,omitempty"`
}

// TorProxyHorizontalPodAutoscaler configures an optional HPA targeting this
// TorProxy's /scale subresource.
type TorProxyHorizontalPodAutoscaler struct {
	Annotations map[string]string                                `json:"annotations,omitempty"`
	Behavior    *autoscalingv2.HorizontalPodAutoscalerBehavior    `json:"behavior,omitempty"`
	Labels      map[string]string                                `json:"labels,omitempty"`

	// Name of the HorizontalPodAutoscaler. Default: name of the TorProxy.
	Name *string `json:"name,omitempty"`

	// MaxReplicas is the upper scale-up bound. Required, must be >= MinReplicas.
	MaxReplicas int32 `json:"maxReplicas"`

	// Metrics to scale on. Default (if nil): 80% average CPU utilization.
	Metrics []autoscalingv2.MetricSpec `json:"metrics,omitempty"`

	// MinReplicas is the lower scale-down bound. Default: 1.
	MinReplicas *int32 `json:"minReplicas,omitempty"`
}

// TorProxySpecService configures the fronting Service.
type TorProxySpecService struct {
	Annotations map[string]string `json:"annotations,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`

	// Name of the Service. Default: name of the TorProxy.
	Name *string `json:"name,omitempty"`

	Ports []TorProxySpecServicePort `json:"ports"`
}

// TorProxySpecServicePort is a single exposed port.
type TorProxySpecServicePort struct {
	// Name of this port within the Service; must be unique.
	Name string `json:"name"`

	Port int32 `json:"port"`

	// Protocol is one of "HTTP_TUNNEL", "SOCKS".
	Protocol string `json:"protocol"`
}

// TorProxyStatus is the observed state of a TorProxy.
type TorProxyStatus struct {
	Conditions []metav1.Condition `json:"conditions,omitempty"`
	Hostname   *string             `json:"hostname,omitempty"`

	// LabelSelector is used by the HorizontalPodAutoscaler /scale
	// subresource to collect metrics.
	LabelSelector string `json:"labelSelector"`

	Replicas int32 `json:"replicas"`

	// Summary maps each condition's Type to its Reason (e.g. "Service" ->
	// "Ready").
	Summary map[string]string `json:"summary,omitempty"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// TorProxyList is a list of TorProxies.
type TorProxyList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []TorProxy `json:"items"`
}
