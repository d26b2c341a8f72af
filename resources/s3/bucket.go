// Package s3 contains the AWS::S3::Bucket resource type for the pipeline
// artifact store.
package s3

// Bucket represents an AWS::S3::Bucket resource.
type Bucket struct {
	BucketName                     string
	VersioningConfiguration        *VersioningConfiguration
	PublicAccessBlockConfiguration *PublicAccessBlockConfiguration
	Tags                           []any
}

// ResourceType returns the CloudFormation type.
func (Bucket) ResourceType() string { return "AWS::S3::Bucket" }

// VersioningConfiguration toggles object versioning.
type VersioningConfiguration struct {
	Status string
}

// PublicAccessBlockConfiguration blocks all public access.
type PublicAccessBlockConfiguration struct {
	BlockPublicAcls       bool
	BlockPublicPolicy     bool
	IgnorePublicAcls      bool
	RestrictPublicBuckets bool
}
