package synth

import (
	"github.com/thunder-so/cdk-webservice/internal/descriptor"
	"github.com/thunder-so/cdk-webservice/internal/template"
	. "github.com/thunder-so/cdk-webservice/intrinsics"
	"github.com/thunder-so/cdk-webservice/resources/ec2"
)

// declareNetwork declares the private network the service runs in: a VPC
// with two public subnets across availability zones, internet routing, and
// the load balancer / service security groups.
func declareNetwork(b *template.Builder, r *descriptor.Resolved) {
	b.Add("VPC", ec2.VPC{
		CidrBlock:          "10.0.0.0/16",
		EnableDnsHostnames: true,
		EnableDnsSupport:   true,
		Tags:               nameTag(r, "vpc"),
	})

	b.Add("PublicSubnetA", ec2.Subnet{
		VpcId:               Ref{LogicalName: "VPC"},
		CidrBlock:           "10.0.0.0/24",
		AvailabilityZone:    Select{Index: 0, List: GetAZs{}},
		MapPublicIpOnLaunch: true,
		Tags:                nameTag(r, "public-a"),
	})
	b.Add("PublicSubnetB", ec2.Subnet{
		VpcId:               Ref{LogicalName: "VPC"},
		CidrBlock:           "10.0.1.0/24",
		AvailabilityZone:    Select{Index: 1, List: GetAZs{}},
		MapPublicIpOnLaunch: true,
		Tags:                nameTag(r, "public-b"),
	})

	b.Add("InternetGateway", ec2.InternetGateway{
		Tags: nameTag(r, "igw"),
	})
	b.Add("GatewayAttachment", ec2.VPCGatewayAttachment{
		VpcId:             Ref{LogicalName: "VPC"},
		InternetGatewayId: Ref{LogicalName: "InternetGateway"},
	})

	b.Add("PublicRouteTable", ec2.RouteTable{
		VpcId: Ref{LogicalName: "VPC"},
		Tags:  nameTag(r, "public-rt"),
	})
	// The route is only valid once the gateway is attached.
	b.Add("PublicRoute", ec2.Route{
		RouteTableId:         Ref{LogicalName: "PublicRouteTable"},
		DestinationCidrBlock: "0.0.0.0/0",
		GatewayId:            Ref{LogicalName: "InternetGateway"},
	}, "GatewayAttachment")
	b.Add("PublicSubnetARouteAssociation", ec2.SubnetRouteTableAssociation{
		SubnetId:     Ref{LogicalName: "PublicSubnetA"},
		RouteTableId: Ref{LogicalName: "PublicRouteTable"},
	})
	b.Add("PublicSubnetBRouteAssociation", ec2.SubnetRouteTableAssociation{
		SubnetId:     Ref{LogicalName: "PublicSubnetB"},
		RouteTableId: Ref{LogicalName: "PublicRouteTable"},
	})

	ingress := []ec2.Rule{{
		IpProtocol:  "tcp",
		FromPort:    80,
		ToPort:      80,
		CidrIp:      "0.0.0.0/0",
		Description: "HTTP from anywhere",
	}}
	if r.Domain != nil {
		ingress = append(ingress, ec2.Rule{
			IpProtocol:  "tcp",
			FromPort:    443,
			ToPort:      443,
			CidrIp:      "0.0.0.0/0",
			Description: "HTTPS from anywhere",
		})
	}
	b.Add("LoadBalancerSecurityGroup", ec2.SecurityGroup{
		GroupDescription:     "Load balancer ingress for " + r.Prefix,
		VpcId:                Ref{LogicalName: "VPC"},
		SecurityGroupIngress: ingress,
		Tags:                 nameTag(r, "lb-sg"),
	})

	b.Add("ServiceSecurityGroup", ec2.SecurityGroup{
		GroupDescription: "Service tasks for " + r.Prefix,
		VpcId:            Ref{LogicalName: "VPC"},
		Tags:             nameTag(r, "service-sg"),
	})
	// Standalone rule: an inline group-to-group rule would make the two
	// security groups reference each other.
	b.Add("ServiceIngressFromLoadBalancer", ec2.SecurityGroupIngress{
		GroupId:               GetAtt{LogicalName: "ServiceSecurityGroup", Attribute: "GroupId"},
		IpProtocol:            "tcp",
		FromPort:              r.Runtime.Port,
		ToPort:                r.Runtime.Port,
		SourceSecurityGroupId: GetAtt{LogicalName: "LoadBalancerSecurityGroup", Attribute: "GroupId"},
		Description:           "Container port from the load balancer",
	})
}

// nameTag builds the standard Name tag for a network resource.
func nameTag(r *descriptor.Resolved, suffix string) []any {
	return []any{
		Tag{Key: "Name", Value: r.Prefix + "-" + suffix},
		Tag{Key: "Environment", Value: r.Environment},
	}
}
