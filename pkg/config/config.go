// Package config holds the process-wide configuration that main passes
// explicitly to the controllers that use it and to the metrics server,
// rather than a hidden package-level singleton.
package config

import "time"

// Default image references and ports, mirroring the shape of the teacher's
// pkg/defaults constants file.
const (
	DefaultTorImageURI             = "ghcr.io/agabani/tor:latest"
	DefaultOnionBalanceImageURI    = "ghcr.io/agabani/onionbalance:latest"
	DefaultImagePullPolicy         = "IfNotPresent"
	DefaultMetricsPort             = 8080
	DefaultResyncPeriod            = 5 * time.Minute
	DefaultOnionKeyRequeueDuration = 5 * time.Second
)

// ImageConfig names the image and pull policy a Deployment's container
// should run, mirroring the original implementation's onion_service::ImageConfig
// and onion_balance::ImageConfig.
type ImageConfig struct {
	PullPolicy string
	URI        string
}

// Config is the process-wide configuration built once in main and passed
// explicitly to the OnionService, OnionBalance, TorIngress and TorProxy
// controllers (the OnionKey controller takes none); there is no
// package-level global.
type Config struct {
	// TorImage is the image every OnionService/TorIngress/TorProxy tor
	// container runs.
	TorImage ImageConfig

	// OnionBalanceImage is the image every OnionBalance/TorIngress
	// onionbalance container runs.
	OnionBalanceImage ImageConfig

	// MetricsPort is the port the /metrics, /livez and /readyz HTTP
	// server listens on.
	MetricsPort int

	// Namespace restricts every controller to a single namespace when
	// non-empty; empty means cluster-wide.
	Namespace string

	// ResyncPeriod is the informer factory's full resync interval.
	ResyncPeriod time.Duration
}

// Default returns a Config populated with the operator's built-in defaults.
func Default() Config {
	return Config{
		TorImage:          ImageConfig{PullPolicy: DefaultImagePullPolicy, URI: DefaultTorImageURI},
		OnionBalanceImage: ImageConfig{PullPolicy: DefaultImagePullPolicy, URI: DefaultOnionBalanceImageURI},
		MetricsPort:       DefaultMetricsPort,
		ResyncPeriod:      DefaultResyncPeriod,
	}
}
