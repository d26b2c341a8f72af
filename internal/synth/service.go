package synth

import (
	"sort"

	"github.com/thunder-so/cdk-webservice/internal/descriptor"
	"github.com/thunder-so/cdk-webservice/internal/naming"
	"github.com/thunder-so/cdk-webservice/internal/template"
	. "github.com/thunder-so/cdk-webservice/intrinsics"
	"github.com/thunder-so/cdk-webservice/resources/ecs"
	elbv2 "github.com/thunder-so/cdk-webservice/resources/elasticloadbalancingv2"
	"github.com/thunder-so/cdk-webservice/resources/iam"
	"github.com/thunder-so/cdk-webservice/resources/route53"
)

// containerName is the logical name of the single application container in
// the task definition. The deploy stage patches the image of this container,
// so it stays stable across revisions.
const containerName = "app"

// bootstrapImage runs until the first pipeline execution (or manual deploy)
// replaces it with the application image. The service would never reach a
// steady state with an empty image.
const bootstrapImage = "amazon/amazon-ecs-sample"

// declareService declares the ECS cluster, the Fargate task definition with
// its IAM roles and log group, the long-running service, and the application
// load balancer in front of it.
func declareService(b *template.Builder, r *descriptor.Resolved) {
	b.Add("Cluster", ecs.Cluster{
		ClusterName: naming.Resource(r.Prefix, "cluster"),
		ClusterSettings: []ecs.ClusterSetting{
			{Name: "containerInsights", Value: "enabled"},
		},
		Tags: nameTag(r, "cluster"),
	})

	b.Add("LogGroup", logGroup("/ecs/"+r.Prefix, 30))

	declareTaskRoles(b, r)
	declareTaskDefinition(b, r)
	declareLoadBalancer(b, r)

	subnets := Any(
		Ref{LogicalName: "PublicSubnetA"},
		Ref{LogicalName: "PublicSubnetB"},
	)
	// The target group must be attached to the load balancer before the
	// service starts, or ECS rejects it. With a domain the HTTP listener
	// only redirects, so the HTTPS listener carries the attachment.
	listeners := []string{"HttpListener"}
	if r.Domain != nil {
		listeners = append(listeners, "HttpsListener")
	}
	b.Add("Service", ecs.Service{
		ServiceName:    naming.Resource(r.Prefix, "service"),
		Cluster:        Ref{LogicalName: "Cluster"},
		TaskDefinition: Ref{LogicalName: "TaskDefinition"},
		DesiredCount:   r.Runtime.DesiredCount,
		LaunchType:     "FARGATE",
		DeploymentConfiguration: &ecs.DeploymentConfiguration{
			MaximumPercent:        200,
			MinimumHealthyPercent: 50,
			DeploymentCircuitBreaker: &ecs.DeploymentCircuitBreaker{
				Enable:   true,
				Rollback: true,
			},
		},
		NetworkConfiguration: &ecs.NetworkConfiguration{
			AwsvpcConfiguration: &ecs.AwsVpcConfiguration{
				// Public subnets without a NAT gateway: tasks need a
				// public IP to pull images and reach AWS APIs.
				AssignPublicIp: "ENABLED",
				Subnets:        subnets,
				SecurityGroups: Any(GetAtt{LogicalName: "ServiceSecurityGroup", Attribute: "GroupId"}),
			},
		},
		LoadBalancers: []ecs.LoadBalancer{{
			ContainerName:  containerName,
			ContainerPort:  r.Runtime.Port,
			TargetGroupArn: Ref{LogicalName: "TargetGroup"},
		}},
		HealthCheckGracePeriodSeconds: 60,
		Tags:                          nameTag(r, "service"),
	}, listeners...)
}

// declareTaskRoles declares the execution role (image pulls, log writes,
// secret reads) and the task role the application code assumes.
func declareTaskRoles(b *template.Builder, r *descriptor.Resolved) {
	assumeByTasks := NewPolicyDocument(PolicyStatement{
		Effect:    "Allow",
		Principal: ServicePrincipal{"ecs-tasks.amazonaws.com"},
		Action:    "sts:AssumeRole",
	})

	execution := iam.Role{
		RoleName:                 naming.Resource(r.Prefix, "execution"),
		AssumeRolePolicyDocument: assumeByTasks,
		ManagedPolicyArns: Any(
			"arn:aws:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy",
		),
		Tags: nameTag(r, "execution-role"),
	}
	if len(r.Secrets) > 0 {
		execution.Policies = []iam.Policy{{
			PolicyName: "read-secrets",
			PolicyDocument: NewPolicyDocument(PolicyStatement{
				Effect:   "Allow",
				Action:   "secretsmanager:GetSecretValue",
				Resource: sortedValues(r.Secrets),
			}),
		}}
	}
	b.Add("ExecutionRole", execution)

	b.Add("TaskRole", iam.Role{
		RoleName:                 naming.Resource(r.Prefix, "task"),
		AssumeRolePolicyDocument: assumeByTasks,
		Tags:                     nameTag(r, "task-role"),
	})
}

func declareTaskDefinition(b *template.Builder, r *descriptor.Resolved) {
	b.Add("TaskDefinition", ecs.TaskDefinition{
		Family:                  r.Prefix,
		Cpu:                     itoa(r.Runtime.CPU),
		Memory:                  itoa(r.Runtime.Memory),
		NetworkMode:             "awsvpc",
		RequiresCompatibilities: []string{"FARGATE"},
		ExecutionRoleArn:        GetAtt{LogicalName: "ExecutionRole", Attribute: "Arn"},
		TaskRoleArn:             GetAtt{LogicalName: "TaskRole", Attribute: "Arn"},
		RuntimePlatform: &ecs.RuntimePlatform{
			CpuArchitecture:       r.Build.Architecture,
			OperatingSystemFamily: "LINUX",
		},
		ContainerDefinitions: []ecs.ContainerDefinition{{
			Name:      containerName,
			Image:     bootstrapImage,
			Essential: true,
			PortMappings: []ecs.PortMapping{{
				ContainerPort: r.Runtime.Port,
				Protocol:      "tcp",
			}},
			Environment: environment(r),
			Secrets:     secrets(r),
			LogConfiguration: &ecs.LogConfiguration{
				LogDriver: "awslogs",
				Options: Json{
					"awslogs-group":         Ref{LogicalName: "LogGroup"},
					"awslogs-region":        AWS_REGION,
					"awslogs-stream-prefix": containerName,
				},
			},
		}},
		Tags: nameTag(r, "taskdef"),
	})
}

func declareLoadBalancer(b *template.Builder, r *descriptor.Resolved) {
	b.Add("LoadBalancer", elbv2.LoadBalancer{
		Name:           naming.Resource(r.Prefix, "lb"),
		Type:           "application",
		Scheme:         "internet-facing",
		Subnets:        Any(Ref{LogicalName: "PublicSubnetA"}, Ref{LogicalName: "PublicSubnetB"}),
		SecurityGroups: Any(GetAtt{LogicalName: "LoadBalancerSecurityGroup", Attribute: "GroupId"}),
		Tags:           nameTag(r, "lb"),
	}, "GatewayAttachment")

	b.Add("TargetGroup", elbv2.TargetGroup{
		Name:                       naming.Resource(r.Prefix, "tg"),
		Port:                       r.Runtime.Port,
		Protocol:                   "HTTP",
		TargetType:                 "ip",
		VpcId:                      Ref{LogicalName: "VPC"},
		HealthCheckPath:            r.Runtime.HealthCheckPath,
		HealthCheckIntervalSeconds: 30,
		HealthyThresholdCount:      2,
		UnhealthyThresholdCount:    3,
		Matcher:                    &elbv2.Matcher{HttpCode: "200-399"},
		Tags:                       nameTag(r, "tg"),
	})

	if r.Domain == nil {
		// No domain: plain HTTP straight to the target group.
		b.Add("HttpListener", elbv2.Listener{
			LoadBalancerArn: Ref{LogicalName: "LoadBalancer"},
			Port:            80,
			Protocol:        "HTTP",
			DefaultActions: []elbv2.Action{{
				Type:           "forward",
				TargetGroupArn: Ref{LogicalName: "TargetGroup"},
			}},
		})
		return
	}

	b.Add("HttpListener", elbv2.Listener{
		LoadBalancerArn: Ref{LogicalName: "LoadBalancer"},
		Port:            80,
		Protocol:        "HTTP",
		DefaultActions: []elbv2.Action{{
			Type: "redirect",
			RedirectConfig: &elbv2.RedirectConfig{
				Protocol:   "HTTPS",
				Port:       "443",
				StatusCode: "HTTP_301",
			},
		}},
	})
	b.Add("HttpsListener", elbv2.Listener{
		LoadBalancerArn: Ref{LogicalName: "LoadBalancer"},
		Port:            443,
		Protocol:        "HTTPS",
		Certificates: []elbv2.Certificate{{
			CertificateArn: r.Domain.CertificateARN,
		}},
		DefaultActions: []elbv2.Action{{
			Type:           "forward",
			TargetGroupArn: Ref{LogicalName: "TargetGroup"},
		}},
	})
	b.Add("DNSRecord", route53.RecordSet{
		Name:         r.Domain.Name,
		Type:         "A",
		HostedZoneId: r.Domain.HostedZoneID,
		AliasTarget: &route53.AliasTarget{
			DNSName:      GetAtt{LogicalName: "LoadBalancer", Attribute: "DNSName"},
			HostedZoneId: GetAtt{LogicalName: "LoadBalancer", Attribute: "CanonicalHostedZoneID"},
		},
	})
}

// environment returns the plain environment variables sorted by name so the
// task definition serializes identically run to run.
func environment(r *descriptor.Resolved) []ecs.KeyValuePair {
	if len(r.Env) == 0 {
		return nil
	}
	pairs := make([]ecs.KeyValuePair, 0, len(r.Env))
	for _, k := range sortedKeys(r.Env) {
		pairs = append(pairs, ecs.KeyValuePair{Name: k, Value: r.Env[k]})
	}
	return pairs
}

// secrets returns the secret bindings sorted by name.
func secrets(r *descriptor.Resolved) []ecs.Secret {
	if len(r.Secrets) == 0 {
		return nil
	}
	out := make([]ecs.Secret, 0, len(r.Secrets))
	for _, k := range sortedKeys(r.Secrets) {
		out = append(out, ecs.Secret{Name: k, ValueFrom: r.Secrets[k]})
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedValues(m map[string]string) []any {
	vals := make([]any, 0, len(m))
	for _, k := range sortedKeys(m) {
		vals = append(vals, m[k])
	}
	return vals
}
