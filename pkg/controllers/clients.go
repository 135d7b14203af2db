package controllers

import (
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"

	torv1 "github.com/agabani/tor-operator/pkg/apis/tor/v1"
	kube "github.com/agabani/tor-operator/pkg/kubernetes"
)

// Clients bundles the two transports every controller needs: a typed
// clientset for the built-in kinds (ConfigMap, Secret, Deployment, Service,
// HorizontalPodAutoscaler) this operator owns, and a dynamic client for the
// tor.agabani.co.uk CRDs, which have no generated typed clientset in this
// repo (client-gen codegen is out of scope, per spec.md §1).
type Clients struct {
	Kube    kubernetes.Interface
	Dynamic dynamic.Interface
}

var (
	onionKeyGVR      = schema.GroupVersionResource{Group: torv1.GroupName, Version: torv1.Version, Resource: "onionkeys"}
	onionServiceGVR  = schema.GroupVersionResource{Group: torv1.GroupName, Version: torv1.Version, Resource: "onionservices"}
	onionBalanceGVR  = schema.GroupVersionResource{Group: torv1.GroupName, Version: torv1.Version, Resource: "onionbalances"}
	torIngressGVR    = schema.GroupVersionResource{Group: torv1.GroupName, Version: torv1.Version, Resource: "toringresses"}
	torProxyGVR      = schema.GroupVersionResource{Group: torv1.GroupName, Version: torv1.Version, Resource: "torproxies"}
)

// OnionKeyGVR, OnionServiceGVR, OnionBalanceGVR, TorIngressGVR and
// TorProxyGVR expose the five CRD GroupVersionResources so main can build a
// dynamic informer factory without duplicating them.
func OnionKeyGVR() schema.GroupVersionResource     { return onionKeyGVR }
func OnionServiceGVR() schema.GroupVersionResource { return onionServiceGVR }
func OnionBalanceGVR() schema.GroupVersionResource { return onionBalanceGVR }
func TorIngressGVR() schema.GroupVersionResource   { return torIngressGVR }
func TorProxyGVR() schema.GroupVersionResource     { return torProxyGVR }

// The is-subset comparators below feed Api[R]'s Get-then-skip-if-subset
// check in Patch: each one reports whether desired's metadata and
// spec/data already appear, unchanged, in observed, so that a repeat
// Sync/Update with the same desired state issues zero patches.

func onionKeyIsSubset(desired, observed *torv1.OnionKey) bool {
	return kube.ObjectMetaIsSubset(desired.ObjectMeta, observed.ObjectMeta) &&
		kube.OnionKeySpecIsSubset(desired.Spec, observed.Spec)
}

func onionServiceIsSubset(desired, observed *torv1.OnionService) bool {
	return kube.ObjectMetaIsSubset(desired.ObjectMeta, observed.ObjectMeta) &&
		kube.OnionServiceSpecIsSubset(desired.Spec, observed.Spec)
}

func onionBalanceIsSubset(desired, observed *torv1.OnionBalance) bool {
	return kube.ObjectMetaIsSubset(desired.ObjectMeta, observed.ObjectMeta) &&
		kube.OnionBalanceSpecIsSubset(desired.Spec, observed.Spec)
}

func torIngressIsSubset(desired, observed *torv1.TorIngress) bool {
	return kube.ObjectMetaIsSubset(desired.ObjectMeta, observed.ObjectMeta) &&
		kube.TorIngressSpecIsSubset(desired.Spec, observed.Spec)
}

func torProxyIsSubset(desired, observed *torv1.TorProxy) bool {
	return kube.ObjectMetaIsSubset(desired.ObjectMeta, observed.ObjectMeta) &&
		kube.TorProxySpecIsSubset(desired.Spec, observed.Spec)
}

func secretIsSubset(desired, observed *corev1.Secret) bool {
	return kube.ObjectMetaIsSubset(desired.ObjectMeta, observed.ObjectMeta) &&
		kube.SecretIsSubset(*desired, *observed)
}

func configMapIsSubset(desired, observed *corev1.ConfigMap) bool {
	return kube.ObjectMetaIsSubset(desired.ObjectMeta, observed.ObjectMeta) &&
		kube.ConfigMapIsSubset(*desired, *observed)
}

func deploymentIsSubset(desired, observed *appsv1.Deployment) bool {
	return kube.ObjectMetaIsSubset(desired.ObjectMeta, observed.ObjectMeta) &&
		kube.DeploymentSpecIsSubset(desired.Spec, observed.Spec)
}

func serviceIsSubset(desired, observed *corev1.Service) bool {
	return kube.ObjectMetaIsSubset(desired.ObjectMeta, observed.ObjectMeta) &&
		kube.ServiceSpecIsSubset(desired.Spec, observed.Spec)
}

func horizontalPodAutoscalerIsSubset(desired, observed *autoscalingv2.HorizontalPodAutoscaler) bool {
	return kube.ObjectMetaIsSubset(desired.ObjectMeta, observed.ObjectMeta) &&
		kube.HorizontalPodAutoscalerSpecIsSubset(desired.Spec, observed.Spec)
}

func onionKeyAPI(c *Clients, namespace string) *kube.Api[*torv1.OnionKey] {
	return kube.NewApi[*torv1.OnionKey](kube.NewDynamicResourceClient(c.Dynamic, onionKeyGVR, namespace, func() *torv1.OnionKey { return &torv1.OnionKey{} }), onionKeyIsSubset)
}

func onionServiceAPI(c *Clients, namespace string) *kube.Api[*torv1.OnionService] {
	return kube.NewApi[*torv1.OnionService](kube.NewDynamicResourceClient(c.Dynamic, onionServiceGVR, namespace, func() *torv1.OnionService { return &torv1.OnionService{} }), onionServiceIsSubset)
}

func onionBalanceAPI(c *Clients, namespace string) *kube.Api[*torv1.OnionBalance] {
	return kube.NewApi[*torv1.OnionBalance](kube.NewDynamicResourceClient(c.Dynamic, onionBalanceGVR, namespace, func() *torv1.OnionBalance { return &torv1.OnionBalance{} }), onionBalanceIsSubset)
}

func torIngressAPI(c *Clients, namespace string) *kube.Api[*torv1.TorIngress] {
	return kube.NewApi[*torv1.TorIngress](kube.NewDynamicResourceClient(c.Dynamic, torIngressGVR, namespace, func() *torv1.TorIngress { return &torv1.TorIngress{} }), torIngressIsSubset)
}

func torProxyAPI(c *Clients, namespace string) *kube.Api[*torv1.TorProxy] {
	return kube.NewApi[*torv1.TorProxy](kube.NewDynamicResourceClient(c.Dynamic, torProxyGVR, namespace, func() *torv1.TorProxy { return &torv1.TorProxy{} }), torProxyIsSubset)
}

func secretAPI(c *Clients, namespace string) *kube.Api[*corev1.Secret] {
	return kube.NewApi[*corev1.Secret](c.Kube.CoreV1().Secrets(namespace), secretIsSubset)
}

func configMapAPI(c *Clients, namespace string) *kube.Api[*corev1.ConfigMap] {
	return kube.NewApi[*corev1.ConfigMap](c.Kube.CoreV1().ConfigMaps(namespace), configMapIsSubset)
}

func deploymentAPI(c *Clients, namespace string) *kube.Api[*appsv1.Deployment] {
	return kube.NewApi[*appsv1.Deployment](c.Kube.AppsV1().Deployments(namespace), deploymentIsSubset)
}

func serviceAPI(c *Clients, namespace string) *kube.Api[*corev1.Service] {
	return kube.NewApi[*corev1.Service](c.Kube.CoreV1().Services(namespace), serviceIsSubset)
}

func horizontalPodAutoscalerAPI(c *Clients, namespace string) *kube.Api[*autoscalingv2.HorizontalPodAutoscaler] {
	return kube.NewApi[*autoscalingv2.HorizontalPodAutoscaler](c.Kube.AutoscalingV2().HorizontalPodAutoscalers(namespace), horizontalPodAutoscalerIsSubset)
}
