package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	cdkwebservice "github.com/thunder-so/cdk-webservice"
	"github.com/thunder-so/cdk-webservice/internal/descriptor"
	"github.com/thunder-so/cdk-webservice/internal/synth"
	"github.com/thunder-so/cdk-webservice/internal/template"
)

func newSynthCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "synth [descriptor]",
		Short: "Generate the CloudFormation template from a descriptor",
		Long: `Synth resolves the deployment descriptor and generates the full
CloudFormation template for the service.

Examples:
    cdk-webservice synth webservice.yaml
    cdk-webservice synth webservice.yaml -o template.json
    cdk-webservice synth webservice.yaml --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(args[0], outputFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runSynth(path, format, outputFile string) error {
	result := cdkwebservice.SynthResult{}

	tmpl, err := synthesizeDescriptor(path)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return outputSynthResult(result, format, outputFile)
	}

	result.Success = true
	result.Template = *tmpl
	result.Resources = resourceNames(tmpl)
	return outputSynthResult(result, format, outputFile)
}

func resourceNames(tmpl *cdkwebservice.Template) []string {
	names := make([]string, 0, len(tmpl.Resources))
	for name := range tmpl.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func outputSynthResult(result cdkwebservice.SynthResult, format, outputFile string) error {
	// Failures go to stderr, the template itself is the only stdout output.
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("synth failed")
	}

	var data []byte
	var err error
	switch format {
	case "json":
		data, err = template.ToJSON(&result.Template)
	case "yaml":
		data, err = template.ToYAML(&result.Template)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(outputFile, data, 0644)
}

// synthesizeDescriptor is the load -> resolve -> synthesize chain shared by
// synth, graph, and watch.
func synthesizeDescriptor(path string) (*cdkwebservice.Template, error) {
	d, err := descriptor.Load(path)
	if err != nil {
		return nil, err
	}
	r, err := descriptor.Resolve(d)
	if err != nil {
		return nil, err
	}
	return synth.Synthesize(r)
}
