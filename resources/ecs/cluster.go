// Package ecs contains AWS::ECS resource types: the cluster, the Fargate
// task definition, and the long-running service with its rolling-deployment
// configuration.
package ecs

// Cluster represents an AWS::ECS::Cluster resource.
type Cluster struct {
	ClusterName     string
	ClusterSettings []ClusterSetting
	Tags            []any
}

// ResourceType returns the CloudFormation type.
func (Cluster) ResourceType() string { return "AWS::ECS::Cluster" }

// ClusterSetting toggles a cluster feature such as containerInsights.
type ClusterSetting struct {
	Name  string
	Value string
}
