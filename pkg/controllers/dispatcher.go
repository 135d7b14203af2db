package controllers

import (
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/tools/cache"
	"k8s.io/client-go/util/workqueue"
	"k8s.io/klog/v2"
)

// Dispatcher drives a single-kind reconcile loop: it watches one informer,
// enqueues the namespace/name of anything that changes, and calls reconcile
// from a pool of worker goroutines until stopCh closes.
//
// Grounded on the teacher's eventProcessor/eventHandler/Run split in
// pkg/controllers/imageregistry.go, generalized from that controller's
// single well-known work queue key (it manages one cluster-scoped
// singleton) to a per-object namespace/name key, since every kind here has
// many namespaced instances.
type Dispatcher struct {
	name      string
	workqueue workqueue.RateLimitingInterface
	reconcile func(namespace, name string) error
}

// NewDispatcher builds a Dispatcher named for klog/metrics purposes, backed
// by the given reconcile function.
func NewDispatcher(name string, reconcile func(namespace, name string) error) *Dispatcher {
	return &Dispatcher{
		name:      name,
		workqueue: workqueue.NewNamedRateLimitingQueue(workqueue.DefaultControllerRateLimiter(), name),
		reconcile: reconcile,
	}
}

// Watch registers add/update/delete handlers on informer that enqueue the
// changed object's namespace/name key.
func (d *Dispatcher) Watch(informer cache.SharedIndexInformer) {
	informer.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc:    func(obj interface{}) { d.enqueueObj(obj) },
		UpdateFunc: func(_, obj interface{}) { d.enqueueObj(obj) },
		DeleteFunc: func(obj interface{}) { d.enqueueObj(obj) },
	})
}

func (d *Dispatcher) enqueueObj(obj interface{}) {
	key, err := cache.DeletionHandlingMetaNamespaceKeyFunc(obj)
	if err != nil {
		klog.Errorf("%s: unable to get key for object: %v", d.name, err)
		return
	}
	d.workqueue.Add(key)
}

// Enqueue schedules an immediate reconcile of namespace/name.
func (d *Dispatcher) Enqueue(namespace, name string) {
	d.workqueue.Add(namespace + "/" + name)
}

// EnqueueAfter schedules a reconcile of namespace/name after delay, used by
// reconcilers that want a fixed resync cadence (mirroring the original
// implementation's Action::requeue(duration)).
func (d *Dispatcher) EnqueueAfter(namespace, name string, delay time.Duration) {
	d.workqueue.AddAfter(namespace+"/"+name, delay)
}

// Run starts workers worker goroutines and blocks until stopCh closes.
func (d *Dispatcher) Run(workers int, stopCh <-chan struct{}) {
	defer d.workqueue.ShutDown()

	klog.Infof("%s: starting workers", d.name)
	for i := 0; i < workers; i++ {
		go wait.Until(d.runWorker, time.Second, stopCh)
	}
	klog.Infof("%s: started workers", d.name)

	<-stopCh
	klog.Infof("%s: shutting down workers", d.name)
}

func (d *Dispatcher) runWorker() {
	for d.processNextWorkItem() {
	}
}

func (d *Dispatcher) processNextWorkItem() bool {
	obj, shutdown := d.workqueue.Get()
	if shutdown {
		return false
	}
	defer d.workqueue.Done(obj)

	key, ok := obj.(string)
	if !ok {
		d.workqueue.Forget(obj)
		klog.Errorf("%s: expected string in workqueue but got %#v", d.name, obj)
		return true
	}

	namespace, name, err := splitKey(key)
	if err != nil {
		d.workqueue.Forget(obj)
		klog.Errorf("%s: invalid key %q: %v", d.name, key, err)
		return true
	}

	if err := d.reconcile(namespace, name); err != nil {
		d.workqueue.AddRateLimited(key)
		klog.Errorf("%s: error syncing %q, requeuing: %v", d.name, key, err)
		return true
	}

	d.workqueue.Forget(key)
	klog.V(1).Infof("%s: synced %q", d.name, key)
	return true
}

func splitKey(key string) (namespace, name string, err error) {
	namespace, name, err = cache.SplitMetaNamespaceKey(key)
	if err != nil {
		return "", "", fmt.Errorf("split key: %w", err)
	}
	return namespace, name, nil
}
