// Package ecr contains the AWS::ECR::Repository resource type for the
// pipeline's image registry.
package ecr

// Repository represents an AWS::ECR::Repository resource.
type Repository struct {
	RepositoryName             string
	ImageScanningConfiguration *ImageScanningConfiguration
	LifecyclePolicy            *LifecyclePolicy
	Tags                       []any
}

// ResourceType returns the CloudFormation type.
func (Repository) ResourceType() string { return "AWS::ECR::Repository" }

// ImageScanningConfiguration enables scan-on-push.
type ImageScanningConfiguration struct {
	ScanOnPush bool
}

// LifecyclePolicy holds the registry lifecycle policy as a JSON document.
type LifecyclePolicy struct {
	LifecyclePolicyText string
}
