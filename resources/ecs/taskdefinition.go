package ecs

// TaskDefinition represents an AWS::ECS::TaskDefinition resource.
// Cpu and Memory are strings because CloudFormation expects the Fargate
// sizing tiers as string values ("256", "512", ...).
type TaskDefinition struct {
	Family                  string
	Cpu                     string
	Memory                  string
	NetworkMode             string
	RequiresCompatibilities []string
	ExecutionRoleArn        any
	TaskRoleArn             any
	RuntimePlatform         *RuntimePlatform
	ContainerDefinitions    []ContainerDefinition
	Tags                    []any
}

// ResourceType returns the CloudFormation type.
func (TaskDefinition) ResourceType() string { return "AWS::ECS::TaskDefinition" }

// RuntimePlatform selects the CPU architecture and OS family for Fargate.
type RuntimePlatform struct {
	CpuArchitecture       string
	OperatingSystemFamily string
}

// ContainerDefinition describes a single container in the task.
type ContainerDefinition struct {
	Name             string
	Image            any
	Essential        bool
	PortMappings     []PortMapping
	Environment      []KeyValuePair
	Secrets          []Secret
	LogConfiguration *LogConfiguration
	HealthCheck      *HealthCheck
}

// PortMapping exposes a container port.
type PortMapping struct {
	ContainerPort int
	Protocol      string
}

// KeyValuePair is a plain environment variable binding.
type KeyValuePair struct {
	Name  string
	Value any
}

// Secret binds an environment variable to an external secret locator.
type Secret struct {
	Name      string
	ValueFrom any
}

// LogConfiguration routes container output to a log driver.
type LogConfiguration struct {
	LogDriver string
	Options   map[string]any
}

// HealthCheck is the container-level health probe.
type HealthCheck struct {
	Command     []string
	Interval    int
	Timeout     int
	Retries     int
	StartPeriod int
}
