// Package intrinsics provides the CloudFormation intrinsic functions used by
// the synthesized web-service templates.
//
// Core intrinsic functions:
//
//	Ref{LogicalName: "Cluster"}                  -> {"Ref": "Cluster"}
//	GetAtt{LogicalName: "LoadBalancer",
//	       Attribute: "DNSName"}                 -> {"Fn::GetAtt": ["LoadBalancer", "DNSName"]}
//	Sub{String: "${AWS::Region}"}                -> {"Fn::Sub": "${AWS::Region}"}
//	Join{Delimiter: ",", Values: []any{"a"}}     -> {"Fn::Join": [",", ["a"]]}
//
// Pseudo-parameters:
//
//	AWS_REGION, AWS_ACCOUNT_ID, AWS_STACK_NAME, etc.
package intrinsics

import (
	"encoding/json"
)

// Ref represents a CloudFormation Ref intrinsic function.
type Ref struct {
	LogicalName string
}

// MarshalJSON serializes Ref to {"Ref": name}.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Ref": r.LogicalName})
}

// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
type GetAtt struct {
	LogicalName string
	Attribute   string
}

// MarshalJSON serializes GetAtt to {"Fn::GetAtt": [name, attribute]}.
func (g GetAtt) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{
		"Fn::GetAtt": {g.LogicalName, g.Attribute},
	})
}

// Sub represents a CloudFormation Fn::Sub intrinsic function.
type Sub struct {
	String string
}

// MarshalJSON serializes Sub to {"Fn::Sub": string}.
func (s Sub) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Fn::Sub": s.String})
}

// SubWithMap is Fn::Sub with a variable map.
type SubWithMap struct {
	String    string
	Variables map[string]any
}

// MarshalJSON serializes SubWithMap to {"Fn::Sub": [string, variables]}.
func (s SubWithMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Sub": {s.String, s.Variables},
	})
}

// Join represents a CloudFormation Fn::Join intrinsic function.
type Join struct {
	Delimiter string
	Values    []any
}

// MarshalJSON serializes Join to {"Fn::Join": [delimiter, values]}.
func (j Join) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Join": {j.Delimiter, j.Values},
	})
}

// Select represents a CloudFormation Fn::Select intrinsic function.
type Select struct {
	Index int
	List  any
}

// MarshalJSON serializes Select to {"Fn::Select": [index, list]}.
func (s Select) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Select": {s.Index, s.List},
	})
}

// GetAZs represents a CloudFormation Fn::GetAZs intrinsic function.
// An empty Region means the region of the current stack.
type GetAZs struct {
	Region string
}

// MarshalJSON serializes GetAZs to {"Fn::GetAZs": region}.
func (g GetAZs) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Fn::GetAZs": g.Region})
}

// ImportValue represents a CloudFormation Fn::ImportValue intrinsic function.
type ImportValue struct {
	Name any
}

// MarshalJSON serializes ImportValue to {"Fn::ImportValue": name}.
func (i ImportValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"Fn::ImportValue": i.Name})
}

// Tag represents a CloudFormation resource tag.
type Tag struct {
	Key   string `json:"Key"`
	Value any    `json:"Value"`
}
