package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cdkwebservice "github.com/thunder-so/cdk-webservice"
)

func sampleTemplate() *cdkwebservice.Template {
	return &cdkwebservice.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Resources: map[string]cdkwebservice.ResourceDef{
			"VPC": {
				Type:       "AWS::EC2::VPC",
				Properties: map[string]any{"CidrBlock": "10.0.0.0/16"},
			},
			"PublicSubnetA": {
				Type: "AWS::EC2::Subnet",
				Properties: map[string]any{
					"VpcId": map[string]any{"Ref": "VPC"},
				},
			},
			"Service": {
				Type:      "AWS::ECS::Service",
				DependsOn: []string{"HttpListener"},
				Properties: map[string]any{
					"NetworkConfiguration": map[string]any{
						"AwsvpcConfiguration": map[string]any{
							"SecurityGroups": []any{
								map[string]any{"Fn::GetAtt": []any{"ServiceSecurityGroup", "GroupId"}},
							},
						},
					},
				},
			},
			"ServiceSecurityGroup": {
				Type: "AWS::EC2::SecurityGroup",
				Properties: map[string]any{
					"VpcId": map[string]any{"Ref": "VPC"},
				},
			},
			"HttpListener": {
				Type:       "AWS::ElasticLoadBalancingV2::Listener",
				Properties: map[string]any{},
			},
		},
	}
}

func TestGenerate_DOT(t *testing.T) {
	g := &Generator{}
	out, err := g.GenerateString(sampleTemplate())
	require.NoError(t, err)

	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "VPC")
	assert.Contains(t, out, "AWS::EC2::Subnet")
	// Ref edge from the subnet to the VPC.
	assert.Contains(t, out, "PublicSubnetA")
}

func TestGenerate_Mermaid(t *testing.T) {
	g := &Generator{Format: FormatMermaid}
	out, err := g.GenerateString(sampleTemplate())
	require.NoError(t, err)

	isMermaid := strings.Contains(out, "graph") || strings.Contains(out, "flowchart")
	assert.True(t, isMermaid, "expected mermaid output, got:\n%s", out)
	assert.NotContains(t, out, "digraph")
}

func TestGenerate_GetAttEdgesAreBlue(t *testing.T) {
	g := &Generator{}
	out, err := g.GenerateString(sampleTemplate())
	require.NoError(t, err)

	assert.Contains(t, out, `color="blue"`)
}

func TestGenerate_ClusterByService(t *testing.T) {
	g := &Generator{ClusterByService: true}
	out, err := g.GenerateString(sampleTemplate())
	require.NoError(t, err)

	// Three EC2 resources share a cluster.
	assert.Contains(t, out, "cluster_EC2")
	// Single-resource services stay unclustered.
	assert.NotContains(t, out, "cluster_ECS")
}

func TestEdges_DeduplicatedAndSorted(t *testing.T) {
	tmpl := sampleTemplate()
	es := edges(tmpl)

	seen := make(map[string]bool)
	for _, e := range es {
		key := e.from + "->" + e.to
		assert.False(t, seen[key], "duplicate edge %s", key)
		seen[key] = true
	}

	assert.True(t, seen["Service->HttpListener"])
	assert.True(t, seen["Service->ServiceSecurityGroup"])
	assert.True(t, seen["PublicSubnetA->VPC"])
}

func TestEdges_IgnoreUndeclaredTargets(t *testing.T) {
	tmpl := &cdkwebservice.Template{
		Resources: map[string]cdkwebservice.ResourceDef{
			"Only": {
				Type: "AWS::ECS::Cluster",
				Properties: map[string]any{
					"Setting": map[string]any{"Ref": "AWS::Region"},
				},
			},
		},
	}

	assert.Empty(t, edges(tmpl))
}
