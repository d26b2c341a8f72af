package synth

import (
	"fmt"

	"github.com/thunder-so/cdk-webservice/internal/buildspec"
	"github.com/thunder-so/cdk-webservice/internal/descriptor"
	"github.com/thunder-so/cdk-webservice/internal/naming"
	"github.com/thunder-so/cdk-webservice/internal/template"
	. "github.com/thunder-so/cdk-webservice/intrinsics"
	"github.com/thunder-so/cdk-webservice/resources/codebuild"
	"github.com/thunder-so/cdk-webservice/resources/codepipeline"
	"github.com/thunder-so/cdk-webservice/resources/ecr"
	"github.com/thunder-so/cdk-webservice/resources/iam"
	"github.com/thunder-so/cdk-webservice/resources/s3"
)

// keepLast keeps only the most recent images in the repository. Older
// revisions are still deployable through the service's previous task
// definitions until they expire.
const keepLast = 20

// lifecyclePolicy is the ECR lifecycle policy JSON. ECR requires a literal
// JSON string here, not a structured property.
var lifecyclePolicy = fmt.Sprintf(`{"rules":[{"rulePriority":1,"description":"keep last %d images","selection":{"tagStatus":"any","countType":"imageCountMoreThan","countNumber":%d},"action":{"type":"expire"}}]}`, keepLast, keepLast)

// declarePipeline declares the source -> build -> deploy continuous delivery
// subsystem: the image repository, the artifact bucket, the two CodeBuild
// projects with their rendered shell specs, and the pipeline that runs them.
func declarePipeline(b *template.Builder, r *descriptor.Resolved) error {
	repositoryName := naming.Resource(r.Prefix, "repo")

	b.Add("Repository", ecr.Repository{
		RepositoryName: repositoryName,
		ImageScanningConfiguration: &ecr.ImageScanningConfiguration{
			ScanOnPush: true,
		},
		LifecyclePolicy: &ecr.LifecyclePolicy{
			LifecyclePolicyText: lifecyclePolicy,
		},
		Tags: nameTag(r, "repo"),
	})

	b.Add("ArtifactBucket", s3.Bucket{
		BucketName: fmt.Sprintf("%s-artifacts-%s", r.Prefix, r.Account),
		VersioningConfiguration: &s3.VersioningConfiguration{
			Status: "Enabled",
		},
		PublicAccessBlockConfiguration: &s3.PublicAccessBlockConfiguration{
			BlockPublicAcls:       true,
			BlockPublicPolicy:     true,
			IgnorePublicAcls:      true,
			RestrictPublicBuckets: true,
		},
		Tags: nameTag(r, "artifacts"),
	})

	declarePipelineRoles(b, r)

	buildSpec, err := buildspec.Build(buildspec.BuildInput{
		RepositoryName: repositoryName,
		SourceDir:      r.Build.SourceDir,
		Dockerfile:     r.Build.Dockerfile,
		Args:           r.Build.Args,
		Buildpack:      r.Build.Buildpack,
	})
	if err != nil {
		return fmt.Errorf("build spec: %w", err)
	}
	buildYAML, err := buildSpec.Render()
	if err != nil {
		return fmt.Errorf("render build spec: %w", err)
	}

	deploySpec, err := buildspec.Deploy(buildspec.DeployInput{
		Cluster: naming.Resource(r.Prefix, "cluster"),
		Service: naming.Resource(r.Prefix, "service"),
		Family:  r.Prefix,
	})
	if err != nil {
		return fmt.Errorf("deploy spec: %w", err)
	}
	deployYAML, err := deploySpec.Render()
	if err != nil {
		return fmt.Errorf("render deploy spec: %w", err)
	}

	b.Add("BuildProject", codebuild.Project{
		Name:        naming.Resource(r.Prefix, "build"),
		Description: "Builds and pushes the container image for " + r.Prefix,
		ServiceRole: GetAtt{LogicalName: "BuildRole", Attribute: "Arn"},
		Artifacts:   &codebuild.Artifacts{Type: "CODEPIPELINE"},
		Environment: &codebuild.Environment{
			Type:        buildEnvironmentType(r.Build.Architecture),
			ComputeType: "BUILD_GENERAL1_SMALL",
			Image:       buildImage(r.Build.Architecture),
			// Docker-in-Docker for the image build.
			PrivilegedMode: true,
			EnvironmentVariables: []codebuild.EnvironmentVariable{
				{Name: "REPOSITORY_URI", Value: GetAtt{LogicalName: "Repository", Attribute: "RepositoryUri"}},
			},
		},
		Source: &codebuild.Source{
			Type:      "CODEPIPELINE",
			BuildSpec: buildYAML,
		},
		TimeoutInMinutes: 30,
		Tags:             nameTag(r, "build"),
	})

	b.Add("DeployProject", codebuild.Project{
		Name:        naming.Resource(r.Prefix, "deploy"),
		Description: "Registers the new task revision and rolls the service for " + r.Prefix,
		ServiceRole: GetAtt{LogicalName: "DeployRole", Attribute: "Arn"},
		Artifacts:   &codebuild.Artifacts{Type: "CODEPIPELINE"},
		Environment: &codebuild.Environment{
			Type:        "LINUX_CONTAINER",
			ComputeType: "BUILD_GENERAL1_SMALL",
			Image:       "aws/codebuild/amazonlinux2-x86_64-standard:5.0",
		},
		Source: &codebuild.Source{
			Type:      "CODEPIPELINE",
			BuildSpec: deployYAML,
		},
		TimeoutInMinutes: 15,
		Tags:             nameTag(r, "deploy"),
	})

	b.Add("Pipeline", codepipeline.Pipeline{
		Name:    naming.Resource(r.Prefix, "pipeline"),
		RoleArn: GetAtt{LogicalName: "PipelineRole", Attribute: "Arn"},
		ArtifactStore: &codepipeline.ArtifactStore{
			Type:     "S3",
			Location: Ref{LogicalName: "ArtifactBucket"},
		},
		Stages: []codepipeline.Stage{
			{
				Name: "Source",
				Actions: []codepipeline.Action{{
					Name: "GitHub",
					ActionTypeId: &codepipeline.ActionTypeId{
						Category: "Source",
						Owner:    "ThirdParty",
						Provider: "GitHub",
						Version:  "1",
					},
					Configuration: Json{
						"Owner":  r.Source.Owner,
						"Repo":   r.Source.Repo,
						"Branch": r.Source.Branch,
						// Dynamic reference: the token never lands in
						// the rendered template.
						"OAuthToken":           fmt.Sprintf("{{resolve:secretsmanager:%s}}", r.Source.AccessTokenSecretARN),
						"PollForSourceChanges": false,
					},
					OutputArtifacts: []codepipeline.Artifact{{Name: "SourceOutput"}},
					RunOrder:        1,
				}},
			},
			{
				Name: "Build",
				Actions: []codepipeline.Action{{
					Name: "BuildImage",
					ActionTypeId: &codepipeline.ActionTypeId{
						Category: "Build",
						Owner:    "AWS",
						Provider: "CodeBuild",
						Version:  "1",
					},
					Configuration: Json{
						"ProjectName": Ref{LogicalName: "BuildProject"},
					},
					InputArtifacts:  []codepipeline.Artifact{{Name: "SourceOutput"}},
					OutputArtifacts: []codepipeline.Artifact{{Name: "BuildOutput"}},
					RunOrder:        1,
				}},
			},
			{
				Name: "Deploy",
				Actions: []codepipeline.Action{{
					Name: "RollService",
					ActionTypeId: &codepipeline.ActionTypeId{
						Category: "Build",
						Owner:    "AWS",
						Provider: "CodeBuild",
						Version:  "1",
					},
					Configuration: Json{
						"ProjectName": Ref{LogicalName: "DeployProject"},
					},
					InputArtifacts: []codepipeline.Artifact{{Name: "BuildOutput"}},
					RunOrder:       1,
				}},
			},
		},
		Tags: nameTag(r, "pipeline"),
	}, "Service")

	return nil
}

// declarePipelineRoles declares the three pipeline IAM roles. Each stage gets
// its own role scoped to what that stage touches.
func declarePipelineRoles(b *template.Builder, r *descriptor.Resolved) {
	assumeByCodeBuild := NewPolicyDocument(PolicyStatement{
		Effect:    "Allow",
		Principal: ServicePrincipal{"codebuild.amazonaws.com"},
		Action:    "sts:AssumeRole",
	})

	artifactObjects := Sub{String: "${ArtifactBucket.Arn}/*"}

	b.Add("BuildRole", iam.Role{
		RoleName:                 naming.Resource(r.Prefix, "build-role"),
		AssumeRolePolicyDocument: assumeByCodeBuild,
		Policies: []iam.Policy{{
			PolicyName: "build",
			PolicyDocument: NewPolicyDocument(
				PolicyStatement{
					Sid:      "Logs",
					Effect:   "Allow",
					Action:   List("logs:CreateLogGroup", "logs:CreateLogStream", "logs:PutLogEvents"),
					Resource: "*",
				},
				PolicyStatement{
					Sid:      "EcrAuth",
					Effect:   "Allow",
					Action:   "ecr:GetAuthorizationToken",
					Resource: "*",
				},
				PolicyStatement{
					Sid:    "EcrPush",
					Effect: "Allow",
					Action: List(
						"ecr:BatchCheckLayerAvailability",
						"ecr:CompleteLayerUpload",
						"ecr:InitiateLayerUpload",
						"ecr:PutImage",
						"ecr:UploadLayerPart",
						"ecr:DescribeImages",
					),
					Resource: GetAtt{LogicalName: "Repository", Attribute: "Arn"},
				},
				PolicyStatement{
					Sid:      "Artifacts",
					Effect:   "Allow",
					Action:   List("s3:GetObject", "s3:GetObjectVersion", "s3:PutObject"),
					Resource: artifactObjects,
				},
			),
		}},
		Tags: nameTag(r, "build-role"),
	})

	b.Add("DeployRole", iam.Role{
		RoleName:                 naming.Resource(r.Prefix, "deploy-role"),
		AssumeRolePolicyDocument: assumeByCodeBuild,
		Policies: []iam.Policy{{
			PolicyName: "deploy",
			PolicyDocument: NewPolicyDocument(
				PolicyStatement{
					Sid:      "Logs",
					Effect:   "Allow",
					Action:   List("logs:CreateLogGroup", "logs:CreateLogStream", "logs:PutLogEvents"),
					Resource: "*",
				},
				PolicyStatement{
					Sid:    "Ecs",
					Effect: "Allow",
					Action: List(
						"ecs:DescribeTaskDefinition",
						"ecs:DescribeServices",
						"ecs:RegisterTaskDefinition",
						"ecs:UpdateService",
					),
					Resource: "*",
				},
				PolicyStatement{
					Sid:    "PassTaskRoles",
					Effect: "Allow",
					Action: "iam:PassRole",
					Resource: Any(
						GetAtt{LogicalName: "ExecutionRole", Attribute: "Arn"},
						GetAtt{LogicalName: "TaskRole", Attribute: "Arn"},
					),
				},
				PolicyStatement{
					Sid:      "Artifacts",
					Effect:   "Allow",
					Action:   List("s3:GetObject", "s3:GetObjectVersion"),
					Resource: artifactObjects,
				},
			),
		}},
		Tags: nameTag(r, "deploy-role"),
	})

	b.Add("PipelineRole", iam.Role{
		RoleName: naming.Resource(r.Prefix, "pipeline-role"),
		AssumeRolePolicyDocument: NewPolicyDocument(PolicyStatement{
			Effect:    "Allow",
			Principal: ServicePrincipal{"codepipeline.amazonaws.com"},
			Action:    "sts:AssumeRole",
		}),
		Policies: []iam.Policy{{
			PolicyName: "orchestrate",
			PolicyDocument: NewPolicyDocument(
				PolicyStatement{
					Sid:    "Artifacts",
					Effect: "Allow",
					Action: List("s3:GetObject", "s3:GetObjectVersion", "s3:PutObject", "s3:GetBucketVersioning"),
					Resource: Any(
						GetAtt{LogicalName: "ArtifactBucket", Attribute: "Arn"},
						artifactObjects,
					),
				},
				PolicyStatement{
					Sid:    "RunBuilds",
					Effect: "Allow",
					Action: List("codebuild:BatchGetBuilds", "codebuild:StartBuild"),
					Resource: Any(
						GetAtt{LogicalName: "BuildProject", Attribute: "Arn"},
						GetAtt{LogicalName: "DeployProject", Attribute: "Arn"},
					),
				},
			),
		}},
		Tags: nameTag(r, "pipeline-role"),
	})
}

// buildEnvironmentType maps the task architecture to the CodeBuild fleet
// type. Building on the same architecture keeps the image native without
// emulation.
func buildEnvironmentType(arch string) string {
	if arch == descriptor.ArchARM64 {
		return "ARM_CONTAINER"
	}
	return "LINUX_CONTAINER"
}

func buildImage(arch string) string {
	if arch == descriptor.ArchARM64 {
		return "aws/codebuild/amazonlinux2-aarch64-standard:3.0"
	}
	return "aws/codebuild/standard:7.0"
}
