// Package validation checks a deployment descriptor end to end: it resolves
// the descriptor, synthesizes the template, and runs cfn-lint over the
// rendered output. Descriptor and reference errors surface before the linter
// ever runs.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lex00/cfn-lint-go/pkg/lint"

	"github.com/thunder-so/cdk-webservice/internal/descriptor"
	"github.com/thunder-so/cdk-webservice/internal/synth"
	"github.com/thunder-so/cdk-webservice/internal/template"
)

// CfnLintResult contains the result of running cfn-lint.
type CfnLintResult struct {
	Passed        bool     `json:"passed"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	Informational []string `json:"informational"`
}

// TotalIssues returns the total number of issues found.
func (r CfnLintResult) TotalIssues() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Informational)
}

// Result contains all validation stages for a descriptor.
type Result struct {
	// DescriptorErrors are validation failures in the descriptor itself.
	DescriptorErrors []string `json:"descriptor_errors,omitempty"`
	// SynthError is a reference or cycle error from template assembly.
	SynthError string `json:"synth_error,omitempty"`
	// Resources is the number of declared resources when synthesis worked.
	Resources int `json:"resources"`
	// CfnLint is the template lint stage, nil when synthesis failed.
	CfnLint *CfnLintResult `json:"cfn_lint,omitempty"`
}

// Passed reports whether every stage succeeded. Lint warnings do not fail
// validation, lint errors do.
func (r *Result) Passed() bool {
	if len(r.DescriptorErrors) > 0 || r.SynthError != "" {
		return false
	}
	return r.CfnLint == nil || r.CfnLint.Passed
}

// Validate runs the full pipeline on the descriptor at path. The synthesized
// template lands in a temporary file for the linter and is removed after.
func Validate(path string) (*Result, error) {
	result := &Result{}

	d, err := descriptor.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading descriptor: %w", err)
	}

	r, err := descriptor.Resolve(d)
	if err != nil {
		result.DescriptorErrors = append(result.DescriptorErrors, err.Error())
		return result, nil
	}

	tmpl, err := synth.Synthesize(r)
	if err != nil {
		result.SynthError = err.Error()
		return result, nil
	}
	result.Resources = len(tmpl.Resources)

	data, err := template.ToYAML(tmpl)
	if err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}

	dir, err := os.MkdirTemp("", "cdk-webservice-validate")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	templatePath := filepath.Join(dir, r.Prefix+".yaml")
	if err := os.WriteFile(templatePath, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing template: %w", err)
	}

	result.CfnLint, err = RunCfnLint(templatePath)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RunCfnLint runs cfn-lint-go on the given template file. Using the library
// instead of shelling out pins the linter version with the module.
func RunCfnLint(templatePath string) (*CfnLintResult, error) {
	if _, err := os.Stat(templatePath); err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Template file not found: %s", templatePath)},
		}, nil
	}

	linter := lint.New(lint.Options{})
	matches, err := linter.LintFile(templatePath)
	if err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Linter error: %v", err)},
		}, nil
	}

	result := &CfnLintResult{
		Errors:        []string{},
		Warnings:      []string{},
		Informational: []string{},
	}

	for _, match := range matches {
		formatted := formatMatch(match)

		switch match.Level {
		case "Error":
			result.Errors = append(result.Errors, formatted)
		case "Warning":
			result.Warnings = append(result.Warnings, formatted)
		default:
			result.Informational = append(result.Informational, formatted)
		}
	}

	// Warnings are acceptable, errors are not.
	result.Passed = len(result.Errors) == 0
	return result, nil
}

// formatMatch formats a cfn-lint-go match for display.
func formatMatch(match lint.Match) string {
	pathStr := ""
	if len(match.Location.Path) > 0 {
		parts := make([]string, len(match.Location.Path))
		for i, p := range match.Location.Path {
			parts[i] = fmt.Sprintf("%v", p)
		}
		pathStr = strings.Join(parts, "/")
	}

	if pathStr != "" {
		return fmt.Sprintf("%s: %s (at %s)", match.Rule.ID, match.Message, pathStr)
	}
	return fmt.Sprintf("%s: %s", match.Rule.ID, match.Message)
}
