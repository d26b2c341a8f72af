package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lex00/cfn-lint-go/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCfnLintResult_TotalIssues(t *testing.T) {
	tests := []struct {
		name     string
		result   CfnLintResult
		expected int
	}{
		{name: "empty result", result: CfnLintResult{}, expected: 0},
		{
			name:     "errors only",
			result:   CfnLintResult{Errors: []string{"error1", "error2"}},
			expected: 2,
		},
		{
			name: "mixed issues",
			result: CfnLintResult{
				Errors:        []string{"error1"},
				Warnings:      []string{"warning1", "warning2"},
				Informational: []string{"info1"},
			},
			expected: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.TotalIssues())
		})
	}
}

func TestResult_Passed(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		passed bool
	}{
		{name: "all clear", result: Result{Resources: 3}, passed: true},
		{
			name:   "descriptor errors fail",
			result: Result{DescriptorErrors: []string{"application: required"}},
			passed: false,
		},
		{
			name:   "synth error fails",
			result: Result{SynthError: "unresolved references"},
			passed: false,
		},
		{
			name:   "lint warnings pass",
			result: Result{CfnLint: &CfnLintResult{Passed: true, Warnings: []string{"W1"}}},
			passed: true,
		},
		{
			name:   "lint errors fail",
			result: Result{CfnLint: &CfnLintResult{Passed: false, Errors: []string{"E1"}}},
			passed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.passed, tt.result.Passed())
		})
	}
}

func TestRunCfnLint_MissingFile(t *testing.T) {
	result, err := RunCfnLint(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.False(t, result.Passed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "not found")
}

func TestValidate_DescriptorErrorsShortCircuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webservice.yaml")
	// Missing the mandatory account and region fields.
	require.NoError(t, os.WriteFile(path, []byte("application: shop\nservice: api\nenvironment: prod\n"), 0o644))

	result, err := Validate(path)
	require.NoError(t, err)

	assert.False(t, result.Passed())
	assert.NotEmpty(t, result.DescriptorErrors)
	assert.Nil(t, result.CfnLint)
}

func TestValidate_UnreadableDescriptor(t *testing.T) {
	_, err := Validate(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFormatMatch(t *testing.T) {
	tests := []struct {
		name     string
		match    lint.Match
		expected string
	}{
		{
			name: "without path",
			match: lint.Match{
				Rule:    lint.MatchRule{ID: "E3002"},
				Message: "Invalid property",
			},
			expected: "E3002: Invalid property",
		},
		{
			name: "with path",
			match: lint.Match{
				Rule:    lint.MatchRule{ID: "W2001"},
				Message: "Parameter not used",
				Location: lint.MatchLocation{
					Path: []any{"Resources", "Service", "Properties"},
				},
			},
			expected: "W2001: Parameter not used (at Resources/Service/Properties)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMatch(tt.match))
		})
	}
}
