// Package cdkwebservice synthesizes CloudFormation templates for containerized
// web services running on ECS Fargate behind an Application Load Balancer,
// with an optional CodePipeline build/deploy workflow and EventBridge
// notifications.
//
// A single deployment descriptor drives the whole synthesis:
//
//	d, err := descriptor.Load("webservice.yaml")
//	tmpl, err := synth.Synthesize(d)
//
// The resulting Template serializes to CloudFormation JSON or YAML and is
// deployed with standard tooling; idempotency per logical resource name is
// the stack engine's job, not this library's.
package cdkwebservice

import (
	"encoding/json"
)

// Resource represents a CloudFormation resource. All resource types under
// resources/ (ecs.Service, ec2.VPC, etc.) implement this interface.
type Resource interface {
	// ResourceType returns the CloudFormation type (e.g., "AWS::ECS::Service")
	ResourceType() string
}

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Parameters               map[string]Parameter   `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// ResourceDef is a single resource in the CloudFormation template.
type ResourceDef struct {
	Type       string         `json:"Type" yaml:"Type"`
	Properties map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
}

// Parameter is a CloudFormation template parameter.
type Parameter struct {
	Type          string   `json:"Type" yaml:"Type"`
	Description   string   `json:"Description,omitempty" yaml:"Description,omitempty"`
	Default       any      `json:"Default,omitempty" yaml:"Default,omitempty"`
	AllowedValues []string `json:"AllowedValues,omitempty" yaml:"AllowedValues,omitempty"`
}

// Export names a cross-stack export for an output value.
type Export struct {
	Name string `json:"Name" yaml:"Name"`
}

// Output is a CloudFormation template output. The synthesizer always emits
// the load balancer DNS name and, when a pipeline is configured, the
// pipeline name.
type Output struct {
	Description string  `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any     `json:"Value" yaml:"Value"`
	Export      *Export `json:"Export,omitempty" yaml:"Export,omitempty"`
}

// SynthResult is the JSON output from `cdk-webservice synth`.
type SynthResult struct {
	Success   bool     `json:"success"`
	Template  Template `json:"template,omitempty"`
	Resources []string `json:"resources,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// ValidateResult is the JSON output from `cdk-webservice validate`.
type ValidateResult struct {
	Success   bool     `json:"success"`
	Resources int      `json:"resources"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// MarshalJSON keeps an empty Resources map serializing as {} rather than null
// so the template stays loadable by downstream tooling.
func (t Template) MarshalJSON() ([]byte, error) {
	type alias Template
	a := alias(t)
	if a.Resources == nil {
		a.Resources = map[string]ResourceDef{}
	}
	return json.Marshal(a)
}
