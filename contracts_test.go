package cdkwebservice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTemplateMarshalJSON(t *testing.T) {
	tmpl := Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              "shop-api-prod web service",
		Resources: map[string]ResourceDef{
			"Cluster": {
				Type: "AWS::ECS::Cluster",
				Properties: map[string]any{
					"ClusterName": "shop-api-prod",
				},
			},
		},
		Outputs: map[string]Output{
			"LoadBalancerDNS": {
				Description: "Public DNS name of the load balancer",
				Value:       map[string]any{"Fn::GetAtt": []string{"LoadBalancer", "DNSName"}},
				Export:      &Export{Name: "shop-api-prod-lb-dns"},
			},
		},
	}

	data, err := json.Marshal(tmpl)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "2010-09-09", parsed["AWSTemplateFormatVersion"])

	res := parsed["Resources"].(map[string]any)
	cluster := res["Cluster"].(map[string]any)
	assert.Equal(t, "AWS::ECS::Cluster", cluster["Type"])

	outs := parsed["Outputs"].(map[string]any)
	lb := outs["LoadBalancerDNS"].(map[string]any)
	exp := lb["Export"].(map[string]any)
	assert.Equal(t, "shop-api-prod-lb-dns", exp["Name"])
}

func TestTemplateMarshalJSON_EmptyResources(t *testing.T) {
	data, err := json.Marshal(Template{AWSTemplateFormatVersion: "2010-09-09"})
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	// Resources must be {} rather than null.
	_, ok := parsed["Resources"].(map[string]any)
	assert.True(t, ok)
}

func TestParameterMarshalsPascalCase(t *testing.T) {
	tmpl := Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Parameters: map[string]Parameter{
			"ImageTag": {
				Type:        "String",
				Description: "Image tag to deploy",
				Default:     "latest",
			},
		},
	}

	data, err := yaml.Marshal(tmpl)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))

	params := parsed["Parameters"].(map[string]any)
	img := params["ImageTag"].(map[string]any)
	assert.Equal(t, "String", img["Type"])
	assert.Equal(t, "latest", img["Default"])
	assert.NotContains(t, img, "type")
	assert.NotContains(t, img, "AllowedValues")
}

func TestResourceDefOmitsEmptySections(t *testing.T) {
	data, err := json.Marshal(ResourceDef{Type: "AWS::ECR::Repository"})
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.NotContains(t, parsed, "Properties")
	assert.NotContains(t, parsed, "DependsOn")
}
