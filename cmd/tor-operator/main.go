package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/dynamic/dynamicinformer"
	"k8s.io/client-go/kubernetes"
	restclient "k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/klog/v2"

	"github.com/agabani/tor-operator/pkg/config"
	"github.com/agabani/tor-operator/pkg/controllers"
	"github.com/agabani/tor-operator/pkg/crds"
	"github.com/agabani/tor-operator/pkg/metrics"
	"github.com/agabani/tor-operator/pkg/signals"
	"github.com/agabani/tor-operator/pkg/version"
)

func printVersion() {
	klog.Infof("Tor Operator Version: %s (commit %s, built %s)", version.Version, version.GitCommit, version.BuildDate)
	klog.Infof("Go Version: %s", runtime.Version())
	klog.Infof("Go OS/Arch: %s/%s", runtime.GOOS, runtime.GOARCH)
}

// getConfig builds a *rest.Config: the kubeconfig flag, then the KUBECONFIG
// env var, then in-cluster config, then $HOME/.kube/config, in that order.
//
// Grounded on the teacher's pkg/client/client.go GetConfig.
func getConfig(kubeconfigFlag string) (*restclient.Config, error) {
	if kubeconfigFlag != "" {
		return clientcmd.BuildConfigFromFlags("", kubeconfigFlag)
	}
	if path := os.Getenv("KUBECONFIG"); path != "" {
		return clientcmd.BuildConfigFromFlags("", path)
	}
	if c, err := restclient.InClusterConfig(); err == nil {
		return c, nil
	}
	if usr, err := user.Current(); err == nil {
		if c, err := clientcmd.BuildConfigFromFlags("", filepath.Join(usr.HomeDir, ".kube", "config")); err == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("could not locate a kubeconfig")
}

func runOperator(namespace, kubeconfigFlag string, metricsPort int, workers int) error {
	printVersion()

	stopCh := signals.SetupSignalHandler()

	restConfig, err := getConfig(kubeconfigFlag)
	if err != nil {
		return fmt.Errorf("build kubeconfig: %w", err)
	}

	kubeClient, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return fmt.Errorf("build kubernetes client: %w", err)
	}
	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return fmt.Errorf("build dynamic client: %w", err)
	}

	clients := &controllers.Clients{Kube: kubeClient, Dynamic: dynamicClient}
	cfg := config.Default()
	cfg.MetricsPort = metricsPort
	cfg.Namespace = namespace

	onionKeyController := controllers.NewOnionKeyController(clients)
	onionServiceController := controllers.NewOnionServiceController(clients, cfg)
	onionBalanceController := controllers.NewOnionBalanceController(clients, cfg)
	torIngressController := controllers.NewTorIngressController(clients, cfg)
	torProxyController := controllers.NewTorProxyController(clients, cfg)

	factory := dynamicinformer.NewFilteredDynamicSharedInformerFactory(dynamicClient, cfg.ResyncPeriod, namespace, nil)
	onionKeyController.Dispatcher().Watch(factory.ForResource(controllers.OnionKeyGVR()).Informer())
	onionServiceController.Dispatcher().Watch(factory.ForResource(controllers.OnionServiceGVR()).Informer())
	onionBalanceController.Dispatcher().Watch(factory.ForResource(controllers.OnionBalanceGVR()).Informer())
	torIngressController.Dispatcher().Watch(factory.ForResource(controllers.TorIngressGVR()).Informer())
	torProxyController.Dispatcher().Watch(factory.ForResource(controllers.TorProxyGVR()).Informer())

	factory.Start(stopCh)
	factory.WaitForCacheSync(stopCh)

	go metrics.RunServer(cfg.MetricsPort, stopCh)

	go onionKeyController.Dispatcher().Run(workers, stopCh)
	go onionServiceController.Dispatcher().Run(workers, stopCh)
	go onionBalanceController.Dispatcher().Run(workers, stopCh)
	go torIngressController.Dispatcher().Run(workers, stopCh)
	go torProxyController.Dispatcher().Run(workers, stopCh)

	<-stopCh
	klog.Info("shutting down the operator")
	return nil
}

func main() {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	if logtostderr := klogFlags.Lookup("logtostderr"); logtostderr != nil {
		_ = logtostderr.Value.Set("true")
	}

	var (
		namespace      string
		kubeconfigFlag string
		metricsPort    int
		workers        int
		crdOutput      string
	)

	root := &cobra.Command{
		Use:   "tor-operator",
		Short: "Kubernetes operator for managing Tor hidden services",
	}
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the operator's reconcile loops and metrics server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperator(namespace, kubeconfigFlag, metricsPort, workers)
		},
	}
	run.Flags().StringVar(&namespace, "namespace", "", "restrict to a single namespace; empty means cluster-wide")
	run.Flags().StringVar(&kubeconfigFlag, "kubeconfig", "", "path to a kubeconfig; empty uses in-cluster or default discovery")
	run.Flags().IntVar(&metricsPort, "metrics-port", config.DefaultMetricsPort, "port the /metrics, /livez and /readyz server listens on")
	run.Flags().IntVar(&workers, "workers", 2, "number of reconcile workers per controller")

	crd := &cobra.Command{
		Use:   "crd",
		Short: "CustomResourceDefinition utilities",
	}
	crdGenerate := &cobra.Command{
		Use:   "generate",
		Short: "Generate the operator's CustomResourceDefinition YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := crds.GenerateYAML()
			if err != nil {
				return err
			}
			if crdOutput == "" || crdOutput == "-" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			return os.WriteFile(crdOutput, out, 0o644)
		},
	}
	crdGenerate.Flags().StringVar(&crdOutput, "output", "-", "file to write the CRD YAML to; \"-\" writes to stdout")
	crd.AddCommand(crdGenerate)

	root.AddCommand(run, crd)

	if err := root.Execute(); err != nil {
		klog.Errorf("%v", err)
		os.Exit(1)
	}
}
