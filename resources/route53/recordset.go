// Package route53 contains the AWS::Route53::RecordSet resource type for the
// optional custom-domain alias.
package route53

// RecordSet represents an AWS::Route53::RecordSet resource.
type RecordSet struct {
	Name         string
	Type         string
	HostedZoneId any
	AliasTarget  *AliasTarget
}

// ResourceType returns the CloudFormation type.
func (RecordSet) ResourceType() string { return "AWS::Route53::RecordSet" }

// AliasTarget points the record at the load balancer.
type AliasTarget struct {
	DNSName      any
	HostedZoneId any
}
