// Package codepipeline contains the AWS::CodePipeline::Pipeline resource
// type for the source -> build -> deploy workflow.
package codepipeline

// Pipeline represents an AWS::CodePipeline::Pipeline resource.
type Pipeline struct {
	Name          string
	RoleArn       any
	ArtifactStore *ArtifactStore
	Stages        []Stage
	Tags          []any
}

// ResourceType returns the CloudFormation type.
func (Pipeline) ResourceType() string { return "AWS::CodePipeline::Pipeline" }

// ArtifactStore is the S3 location artifacts pass through between stages.
type ArtifactStore struct {
	Type     string
	Location any
}

// Stage is one pipeline stage with its actions.
type Stage struct {
	Name    string
	Actions []Action
}

// Action is a single stage action. Configuration keys are provider-specific,
// so they stay an open map.
type Action struct {
	Name            string
	ActionTypeId    *ActionTypeId
	Configuration   map[string]any
	InputArtifacts  []Artifact
	OutputArtifacts []Artifact
	RunOrder        int
}

// ActionTypeId identifies the action provider.
type ActionTypeId struct {
	Category string
	Owner    string
	Provider string
	Version  string
}

// Artifact names a stage input or output artifact.
type Artifact struct {
	Name string
}
