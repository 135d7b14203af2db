package tor

import (
	"fmt"

	yaml "gopkg.in/yaml.v2"
)

// ConfigYaml is the generated contents of an OnionBalance's config.yaml.
type ConfigYaml string

// String returns the config.yaml text.
func (c ConfigYaml) String() string { return string(c) }

// AnnotationTuple returns the (key, value) pair this content contributes to
// an owned child's annotations.
func (c ConfigYaml) AnnotationTuple() (string, string) {
	return "tor.agabani.co.uk/config-yaml-hash", contentHash([]byte(c))
}

type configYamlInstance struct {
	Address string `yaml:"address"`
	Name    string `yaml:"name"`
}

type configYamlService struct {
	Instances []configYamlInstance `yaml:"instances"`
	Key       string               `yaml:"key"`
}

type configYamlDocument struct {
	Services []configYamlService `yaml:"services"`
}

// NewConfigYaml builds the onionbalance config.yaml for a single service
// fronting the given ordered list of backend OnionKey hostnames. Each
// instance's address and name are both the backend's own hostname, matching
// the original onion_balance.rs::generate_config_yaml.
func NewConfigYaml(backendHostnames []string) (ConfigYaml, error) {
	instances := make([]configYamlInstance, 0, len(backendHostnames))
	for _, hostname := range backendHostnames {
		instances = append(instances, configYamlInstance{Address: hostname, Name: hostname})
	}

	doc := configYamlDocument{
		Services: []configYamlService{
			{
				Instances: instances,
				Key:       "/var/lib/tor/hidden_service/hs_ed25519_secret_key",
			},
		},
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal config.yaml: %w", err)
	}
	return ConfigYaml(out), nil
}
