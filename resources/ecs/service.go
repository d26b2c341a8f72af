package ecs

// Service represents an AWS::ECS::Service resource.
type Service struct {
	ServiceName                   string
	Cluster                       any
	TaskDefinition                any
	DesiredCount                  int
	LaunchType                    string
	DeploymentConfiguration       *DeploymentConfiguration
	NetworkConfiguration          *NetworkConfiguration
	LoadBalancers                 []LoadBalancer
	HealthCheckGracePeriodSeconds int
	Tags                          []any
}

// ResourceType returns the CloudFormation type.
func (Service) ResourceType() string { return "AWS::ECS::Service" }

// DeploymentConfiguration bounds the rolling update and enables the
// deployment circuit breaker.
type DeploymentConfiguration struct {
	MaximumPercent           int
	MinimumHealthyPercent    int
	DeploymentCircuitBreaker *DeploymentCircuitBreaker
}

// DeploymentCircuitBreaker rolls back to the last stable task revision when
// a deployment fails its health checks.
type DeploymentCircuitBreaker struct {
	Enable   bool
	Rollback bool
}

// NetworkConfiguration places the tasks into the VPC.
type NetworkConfiguration struct {
	AwsvpcConfiguration *AwsVpcConfiguration
}

// AwsVpcConfiguration is the awsvpc-mode network binding.
type AwsVpcConfiguration struct {
	AssignPublicIp string
	Subnets        []any
	SecurityGroups []any
}

// LoadBalancer attaches a container port to a target group.
type LoadBalancer struct {
	ContainerName  string
	ContainerPort  int
	TargetGroupArn any
}
