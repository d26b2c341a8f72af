package intrinsics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_MarshalJSON(t *testing.T) {
	ref := Ref{LogicalName: "Cluster"}
	data, err := json.Marshal(ref)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Ref": "Cluster"}`, string(data))
}

func TestGetAtt_MarshalJSON(t *testing.T) {
	getAtt := GetAtt{LogicalName: "TaskRole", Attribute: "Arn"}
	data, err := json.Marshal(getAtt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fn::GetAtt": ["TaskRole", "Arn"]}`, string(data))
}

func TestSub_MarshalJSON(t *testing.T) {
	sub := Sub{String: "${AWS::Region}-service"}
	data, err := json.Marshal(sub)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fn::Sub": "${AWS::Region}-service"}`, string(data))
}

func TestSubWithMap_MarshalJSON(t *testing.T) {
	sub := SubWithMap{
		String: "${Repo}-images",
		Variables: map[string]any{
			"Repo": Ref{LogicalName: "Repository"},
		},
	}
	data, err := json.Marshal(sub)
	require.NoError(t, err)
	// The nested Ref should also be serialized correctly
	assert.Contains(t, string(data), `"Fn::Sub"`)
	assert.Contains(t, string(data), `"${Repo}-images"`)
	assert.Contains(t, string(data), `{"Ref":"Repository"}`)
}

func TestJoin_MarshalJSON(t *testing.T) {
	join := Join{Delimiter: ",", Values: []any{"a", "b", "c"}}
	data, err := json.Marshal(join)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fn::Join": [",", ["a", "b", "c"]]}`, string(data))
}

func TestSelect_MarshalJSON(t *testing.T) {
	sel := Select{Index: 0, List: GetAZs{Region: ""}}
	data, err := json.Marshal(sel)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Fn::Select"`)
	assert.Contains(t, string(data), `"Fn::GetAZs"`)
}

func TestImportValue_MarshalJSON(t *testing.T) {
	imp := ImportValue{Name: "shared-vpc-id"}
	data, err := json.Marshal(imp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fn::ImportValue": "shared-vpc-id"}`, string(data))
}

func TestTag_MarshalJSON(t *testing.T) {
	tag := Tag{Key: "Environment", Value: "prod"}
	data, err := json.Marshal(tag)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Key": "Environment", "Value": "prod"}`, string(data))
}

func TestPseudoParameters(t *testing.T) {
	data, err := json.Marshal(AWS_REGION)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Ref": "AWS::Region"}`, string(data))

	data, err = json.Marshal(AWS_ACCOUNT_ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Ref": "AWS::AccountId"}`, string(data))
}

func TestServicePrincipal_MarshalJSON(t *testing.T) {
	p := ServicePrincipal{"ecs-tasks.amazonaws.com"}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Service": "ecs-tasks.amazonaws.com"}`, string(data))

	multi := ServicePrincipal{"codebuild.amazonaws.com", "codepipeline.amazonaws.com"}
	data, err = json.Marshal(multi)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Service": ["codebuild.amazonaws.com", "codepipeline.amazonaws.com"]}`, string(data))
}

func TestPolicyDocument_MarshalJSON(t *testing.T) {
	doc := NewPolicyDocument(PolicyStatement{
		Effect:    "Allow",
		Principal: ServicePrincipal{"ecs-tasks.amazonaws.com"},
		Action:    "sts:AssumeRole",
	})

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "2012-10-17", parsed["Version"])
	stmts := parsed["Statement"].([]any)
	require.Len(t, stmts, 1)
	assert.Equal(t, "Allow", stmts[0].(map[string]any)["Effect"])
}
