package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thunder-so/cdk-webservice/internal/graph"
)

// newGraphCmd creates the "graph" subcommand for dependency visualization.
func newGraphCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
		cluster      bool
	)

	cmd := &cobra.Command{
		Use:   "graph [descriptor]",
		Short: "Render the resource dependency graph",
		Long: `Graph renders the dependency graph of the generated template.

The DOT output can be rendered with Graphviz:
    cdk-webservice graph webservice.yaml | dot -Tpng -o graph.png

Or used in GitHub markdown (Mermaid format):
    cdk-webservice graph webservice.yaml -f mermaid

Examples:
    cdk-webservice graph webservice.yaml
    cdk-webservice graph webservice.yaml -f mermaid
    cdk-webservice graph webservice.yaml --cluster`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(args[0], outputFormat, outputFile, cluster)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&cluster, "cluster", false, "Group resources by AWS service")

	return cmd
}

func runGraph(path, format, outputFile string, cluster bool) error {
	tmpl, err := synthesizeDescriptor(path)
	if err != nil {
		return fmt.Errorf("graph failed: %w", err)
	}

	var gf graph.Format
	switch format {
	case "dot":
		gf = graph.FormatDOT
	case "mermaid":
		gf = graph.FormatMermaid
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	gen := &graph.Generator{Format: gf, ClusterByService: cluster}

	if outputFile == "" {
		return gen.Generate(tmpl, os.Stdout)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()
	return gen.Generate(tmpl, f)
}
