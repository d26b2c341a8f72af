package elasticloadbalancingv2

// Listener represents an AWS::ElasticLoadBalancingV2::Listener resource.
type Listener struct {
	LoadBalancerArn any
	Port            int
	Protocol        string
	Certificates    []Certificate
	DefaultActions  []Action
}

// ResourceType returns the CloudFormation type.
func (Listener) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::Listener"
}

// Certificate references a TLS certificate by ARN.
type Certificate struct {
	CertificateArn any
}

// Action is a listener default action: either a forward to a target group or
// an HTTP->HTTPS redirect.
type Action struct {
	Type           string
	TargetGroupArn any
	RedirectConfig *RedirectConfig
}

// RedirectConfig describes a redirect action.
type RedirectConfig struct {
	Protocol   string
	Port       string
	StatusCode string
}
