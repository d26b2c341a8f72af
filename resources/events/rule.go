// Package events contains the AWS::Events::Rule resource type for forwarding
// pipeline lifecycle state transitions.
package events

// Rule represents an AWS::Events::Rule resource.
type Rule struct {
	Name         string
	Description  string
	EventPattern map[string]any
	State        string
	Targets      []Target
}

// ResourceType returns the CloudFormation type.
func (Rule) ResourceType() string { return "AWS::Events::Rule" }

// Target is a rule target. RoleArn is required for cross-account event bus
// targets.
type Target struct {
	Arn     any
	Id      string
	RoleArn any
}
