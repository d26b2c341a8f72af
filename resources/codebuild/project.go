// Package codebuild contains the AWS::CodeBuild::Project resource type for
// the pipeline's build and deploy stages.
package codebuild

// Project represents an AWS::CodeBuild::Project resource.
type Project struct {
	Name             string
	Description      string
	ServiceRole      any
	Artifacts        *Artifacts
	Environment      *Environment
	Source           *Source
	TimeoutInMinutes int
	Tags             []any
}

// ResourceType returns the CloudFormation type.
func (Project) ResourceType() string { return "AWS::CodeBuild::Project" }

// Artifacts selects where build output goes. Pipeline-driven projects use
// Type "CODEPIPELINE".
type Artifacts struct {
	Type string
}

// Environment is the build container environment.
type Environment struct {
	Type                 string
	ComputeType          string
	Image                string
	PrivilegedMode       bool
	EnvironmentVariables []EnvironmentVariable
}

// EnvironmentVariable is a single build environment variable.
type EnvironmentVariable struct {
	Name  string
	Value any
	Type  string
}

// Source holds the inline buildspec for pipeline-driven projects.
type Source struct {
	Type      string
	BuildSpec string
}
