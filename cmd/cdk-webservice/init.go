package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"
)

// validServiceName matches valid service names (letters, numbers, hyphens).
var validServiceName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [service-name]",
		Short: "Create a starter deployment descriptor",
		Long: `Init creates a starter webservice.yaml in a subdirectory with the given
name. Multiple services can coexist in the same workspace.

Examples:
    cdk-webservice init shop-api      # Creates ./shop-api/webservice.yaml
    cdk-webservice init billing       # Creates ./billing/webservice.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(".", args[0])
		},
	}
}

// runInit creates a starter descriptor in {workspaceDir}/{serviceName}/.
func runInit(workspaceDir, serviceName string) error {
	if !validServiceName.MatchString(serviceName) {
		return fmt.Errorf("invalid service name %q: must start with a letter and contain only letters, numbers, or hyphens", serviceName)
	}

	servicePath := filepath.Join(workspaceDir, serviceName)
	if _, err := os.Stat(servicePath); err == nil {
		return fmt.Errorf("directory already exists: %s", servicePath)
	}

	if err := os.MkdirAll(servicePath, 0755); err != nil {
		return fmt.Errorf("creating service directory: %w", err)
	}

	descriptor := fmt.Sprintf(`# Deployment descriptor for %s.
# Run: cdk-webservice synth webservice.yaml
application: myapp
service: %s
environment: dev
account: "123456789012"
region: eu-central-1

build:
  sourceDir: .
  dockerfile: Dockerfile
  architecture: ARM64

runtime:
  cpu: 256
  memory: 512
  desiredCount: 1
  port: 3000
  healthCheckPath: /

env:
  LOG_LEVEL: info

# Uncomment to serve the site on a custom domain with TLS:
# domain:
#   name: %s.example.com
#   hostedZoneId: Z0123456789ABCDEFGHIJ
#   certificateArn: arn:aws:acm:eu-central-1:123456789012:certificate/...

# Uncomment to add a source -> build -> deploy pipeline:
# source:
#   owner: my-github-org
#   repo: %s
#   branch: main
#   accessTokenSecretArn: arn:aws:secretsmanager:eu-central-1:123456789012:secret:github-token

# Uncomment to forward pipeline state changes to an event bus:
# events:
#   busArn: arn:aws:events:eu-central-1:123456789012:event-bus/platform
#   debug: false
`, serviceName, serviceName, serviceName, serviceName)

	descriptorPath := filepath.Join(servicePath, "webservice.yaml")
	if err := os.WriteFile(descriptorPath, []byte(descriptor), 0644); err != nil {
		return fmt.Errorf("writing descriptor: %w", err)
	}

	fmt.Printf("Created %s\n", descriptorPath)
	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Edit %s with your account and region\n", descriptorPath)
	fmt.Printf("  2. cdk-webservice validate %s\n", descriptorPath)
	fmt.Printf("  3. cdk-webservice synth %s -o template.json\n", descriptorPath)
	return nil
}
