// Package ec2 contains AWS::EC2 resource types for the service network:
// the VPC, public subnets, internet routing, and security groups.
//
// Example usage:
//
//	var vpc = ec2.VPC{
//		CidrBlock:          "10.0.0.0/16",
//		EnableDnsHostnames: true,
//		EnableDnsSupport:   true,
//	}
package ec2
