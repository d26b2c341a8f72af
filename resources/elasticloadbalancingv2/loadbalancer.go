// Package elasticloadbalancingv2 contains AWS::ElasticLoadBalancingV2
// resource types: the application load balancer, its target group, and the
// HTTP/HTTPS listeners.
package elasticloadbalancingv2

// LoadBalancer represents an AWS::ElasticLoadBalancingV2::LoadBalancer resource.
type LoadBalancer struct {
	Name           string
	Type           string
	Scheme         string
	Subnets        []any
	SecurityGroups []any
	Tags           []any
}

// ResourceType returns the CloudFormation type.
func (LoadBalancer) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::LoadBalancer"
}
