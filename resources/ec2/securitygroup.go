package ec2

// SecurityGroup represents an AWS::EC2::SecurityGroup resource.
type SecurityGroup struct {
	GroupName            string
	GroupDescription     string
	VpcId                any
	SecurityGroupIngress []Rule
	SecurityGroupEgress  []Rule
	Tags                 []any
}

// ResourceType returns the CloudFormation type.
func (SecurityGroup) ResourceType() string { return "AWS::EC2::SecurityGroup" }

// Rule describes a single ingress or egress rule.
type Rule struct {
	IpProtocol            string
	FromPort              int
	ToPort                int
	CidrIp                string
	SourceSecurityGroupId any
	Description           string
}

// SecurityGroupIngress represents a standalone AWS::EC2::SecurityGroupIngress
// resource. Used for group-to-group rules that would otherwise create a cycle
// between the two security group declarations.
type SecurityGroupIngress struct {
	GroupId               any
	IpProtocol            string
	FromPort              int
	ToPort                int
	SourceSecurityGroupId any
	Description           string
}

// ResourceType returns the CloudFormation type.
func (SecurityGroupIngress) ResourceType() string { return "AWS::EC2::SecurityGroupIngress" }
