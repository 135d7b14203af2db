// Package crds builds the CustomResourceDefinition objects for the five
// tor.agabani.co.uk kinds and renders them as YAML, backing the `crd
// generate` CLI subcommand. Schema validation is deliberately coarse
// (x-kubernetes-preserve-unknown-fields under spec/status) rather than a
// full per-field OpenAPI v3 schema: generating and maintaining that by hand
// is out of scope (see spec.md §1/§6 — client-gen-style codegen is out of
// core), and a hand-rolled field-by-field schema would drift from
// pkg/apis/tor/v1 the moment either changed independently.
package crds

import (
	"fmt"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	torv1 "github.com/agabani/tor-operator/pkg/apis/tor/v1"
)

// preserveUnknownFieldsSchema is the coarse per-kind schema: structural
// (required by every served CRD version) but otherwise wide open.
func preserveUnknownFieldsSchema() *apiextensionsv1.JSONSchemaProps {
	preserve := true
	return &apiextensionsv1.JSONSchemaProps{
		Type: "object",
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"spec":   {Type: "object", XPreserveUnknownFields: &preserve},
			"status": {Type: "object", XPreserveUnknownFields: &preserve},
		},
	}
}

func newCRD(plural, singular, kind, listKind string, scope apiextensionsv1.ResourceScope, withStatus bool, specReplicasPath string) *apiextensionsv1.CustomResourceDefinition {
	subresources := &apiextensionsv1.CustomResourceSubresources{}
	if withStatus {
		subresources.Status = &apiextensionsv1.CustomResourceSubresourceStatus{}
	}
	if specReplicasPath != "" {
		subresources.Scale = &apiextensionsv1.CustomResourceSubresourceScale{
			SpecReplicasPath:   specReplicasPath,
			StatusReplicasPath: ".status.replicas",
			LabelSelectorPath:  strPtr(".status.labelSelector"),
		}
	}

	return &apiextensionsv1.CustomResourceDefinition{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "apiextensions.k8s.io/v1",
			Kind:       "CustomResourceDefinition",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: fmt.Sprintf("%s.%s", plural, torv1.GroupName),
		},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: torv1.GroupName,
			Names: apiextensionsv1.CustomResourceDefinitionNames{
				Plural:   plural,
				Singular: singular,
				Kind:     kind,
				ListKind: listKind,
			},
			Scope: scope,
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{
				{
					Name:         torv1.Version,
					Served:       true,
					Storage:      true,
					Subresources: subresources,
					Schema: &apiextensionsv1.CustomResourceValidation{
						OpenAPIV3Schema: preserveUnknownFieldsSchema(),
					},
				},
			},
		},
	}
}

func strPtr(s string) *string { return &s }

// All returns the five CRDs this operator owns, in a stable order:
// OnionKey, OnionService, OnionBalance, TorIngress, TorProxy.
func All() []*apiextensionsv1.CustomResourceDefinition {
	return []*apiextensionsv1.CustomResourceDefinition{
		newCRD("onionkeys", "onionkey", "OnionKey", "OnionKeyList", apiextensionsv1.NamespaceScoped, true, ""),
		newCRD("onionservices", "onionservice", "OnionService", "OnionServiceList", apiextensionsv1.NamespaceScoped, true, ""),
		newCRD("onionbalances", "onionbalance", "OnionBalance", "OnionBalanceList", apiextensionsv1.NamespaceScoped, true, ""),
		newCRD("toringresses", "toringress", "TorIngress", "TorIngressList", apiextensionsv1.NamespaceScoped, true, ".spec.onionService.replicas"),
		newCRD("torproxies", "torproxy", "TorProxy", "TorProxyList", apiextensionsv1.NamespaceScoped, true, ".spec.deployment.replicas"),
	}
}

// GenerateYAML renders every CRD as a single "---"-separated YAML document,
// in the order returned by All.
func GenerateYAML() ([]byte, error) {
	var out []byte
	for i, crd := range All() {
		if i > 0 {
			out = append(out, []byte("---\n")...)
		}
		doc, err := yaml.Marshal(crd)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", crd.Name, err)
		}
		out = append(out, doc...)
	}
	return out, nil
}
