package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thunder-so/cdk-webservice/intrinsics"
	"github.com/thunder-so/cdk-webservice/resources/ec2"
	"github.com/thunder-so/cdk-webservice/resources/ecs"
)

func TestProperties_SimpleResource(t *testing.T) {
	props, err := Properties(ec2.VPC{
		CidrBlock:          "10.0.0.0/16",
		EnableDnsHostnames: true,
		EnableDnsSupport:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.0/16", props["CidrBlock"])
	assert.Equal(t, true, props["EnableDnsHostnames"])
	// Zero values are omitted
	assert.NotContains(t, props, "InstanceTenancy")
	assert.NotContains(t, props, "Tags")
}

func TestProperties_IntrinsicFields(t *testing.T) {
	props, err := Properties(ec2.Subnet{
		VpcId:            intrinsics.Ref{LogicalName: "VPC"},
		CidrBlock:        "10.0.1.0/24",
		AvailabilityZone: intrinsics.Select{Index: 0, List: intrinsics.GetAZs{}},
	})
	require.NoError(t, err)

	vpcID, ok := props["VpcId"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "VPC", vpcID["Ref"])

	az, ok := props["AvailabilityZone"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, az, "Fn::Select")
}

func TestProperties_NestedStructs(t *testing.T) {
	props, err := Properties(ecs.Service{
		ServiceName:    "shop-api-prod",
		Cluster:        intrinsics.Ref{LogicalName: "Cluster"},
		TaskDefinition: intrinsics.Ref{LogicalName: "TaskDefinition"},
		DesiredCount:   2,
		LaunchType:     "FARGATE",
		DeploymentConfiguration: &ecs.DeploymentConfiguration{
			MaximumPercent:        200,
			MinimumHealthyPercent: 50,
			DeploymentCircuitBreaker: &ecs.DeploymentCircuitBreaker{
				Enable:   true,
				Rollback: true,
			},
		},
	})
	require.NoError(t, err)

	dc, ok := props["DeploymentConfiguration"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(200), dc["MaximumPercent"])

	cb, ok := dc["DeploymentCircuitBreaker"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, cb["Enable"])
	assert.Equal(t, true, cb["Rollback"])
}

func TestProperties_SliceOfStructs(t *testing.T) {
	props, err := Properties(ecs.TaskDefinition{
		Family: "shop-api-prod",
		Cpu:    "256",
		Memory: "512",
		ContainerDefinitions: []ecs.ContainerDefinition{
			{
				Name:      "app",
				Image:     "123456789012.dkr.ecr.eu-central-1.amazonaws.com/shop-api-prod@sha256:abc",
				Essential: true,
				PortMappings: []ecs.PortMapping{
					{ContainerPort: 3000, Protocol: "tcp"},
				},
			},
		},
	})
	require.NoError(t, err)

	defs, ok := props["ContainerDefinitions"].([]any)
	require.True(t, ok)
	require.Len(t, defs, 1)

	app := defs[0].(map[string]any)
	assert.Equal(t, "app", app["Name"])

	ports := app["PortMappings"].([]any)
	require.Len(t, ports, 1)
	assert.Equal(t, int64(3000), ports[0].(map[string]any)["ContainerPort"])
}

func TestProperties_MapField(t *testing.T) {
	props, err := Properties(ecs.LogConfiguration{
		LogDriver: "awslogs",
		Options: map[string]any{
			"awslogs-group":         "/ecs/shop-api-prod",
			"awslogs-region":        intrinsics.AWS_REGION,
			"awslogs-stream-prefix": "app",
		},
	})
	require.NoError(t, err)

	opts, ok := props["Options"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/ecs/shop-api-prod", opts["awslogs-group"])

	region, ok := opts["awslogs-region"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "AWS::Region", region["Ref"])
}

func TestProperties_NonStructInput(t *testing.T) {
	props, err := Properties("not a struct")
	require.NoError(t, err)
	assert.Nil(t, props)
}
