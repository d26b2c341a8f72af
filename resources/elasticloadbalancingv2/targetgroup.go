package elasticloadbalancingv2

// TargetGroup represents an AWS::ElasticLoadBalancingV2::TargetGroup resource.
type TargetGroup struct {
	Name                       string
	Port                       int
	Protocol                   string
	TargetType                 string
	VpcId                      any
	HealthCheckPath            string
	HealthCheckIntervalSeconds int
	HealthyThresholdCount      int
	UnhealthyThresholdCount    int
	Matcher                    *Matcher
	Tags                       []any
}

// ResourceType returns the CloudFormation type.
func (TargetGroup) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::TargetGroup"
}

// Matcher is the expected health-check response code range.
type Matcher struct {
	HttpCode string
}
