// Command cdk-webservice turns a deployment descriptor into a CloudFormation
// template for a containerized web service.
//
// Usage:
//
//	cdk-webservice synth webservice.yaml       Generate the template
//	cdk-webservice validate webservice.yaml    Check descriptor and template
//	cdk-webservice graph webservice.yaml       Render the dependency graph
//	cdk-webservice init myservice              Create a starter descriptor
//	cdk-webservice version                     Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cdk-webservice",
		Short: "Generate CloudFormation for a containerized web service",
		Long: `cdk-webservice generates a complete CloudFormation template from a single
deployment descriptor:

    application: shop
    service: api
    environment: prod
    account: "123456789012"
    region: eu-central-1

One descriptor produces the VPC, the Fargate service behind a load
balancer, and optionally a delivery pipeline and pipeline event
forwarding:

    cdk-webservice synth webservice.yaml`,
	}

	rootCmd.AddCommand(
		newSynthCmd(),
		newValidateCmd(),
		newGraphCmd(),
		newWatchCmd(),
		newInitCmd(),
		newWaitCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cdk-webservice %s\n", getVersion())
		},
	}
}
