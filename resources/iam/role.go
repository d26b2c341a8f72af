// Package iam contains the AWS::IAM::Role resource type used by the task
// execution, task, build, deploy, pipeline, and event-forwarding roles.
package iam

// Role represents an AWS::IAM::Role resource.
type Role struct {
	RoleName                 string
	AssumeRolePolicyDocument any
	ManagedPolicyArns        []any
	Policies                 []Policy
	Tags                     []any
}

// ResourceType returns the CloudFormation type.
func (Role) ResourceType() string { return "AWS::IAM::Role" }

// Policy is an inline policy attached to a role.
type Policy struct {
	PolicyName     string
	PolicyDocument any
}
