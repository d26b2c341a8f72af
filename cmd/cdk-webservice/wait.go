package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thunder-so/cdk-webservice/internal/deploy"
	"github.com/thunder-so/cdk-webservice/internal/descriptor"
	"github.com/thunder-so/cdk-webservice/internal/naming"
)

// newWaitCmd creates the "wait" subcommand for watching a rollout from the
// workstation, mirroring what the pipeline's deploy stage does.
func newWaitCmd() *cobra.Command {
	var (
		interval time.Duration
		window   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wait [descriptor]",
		Short: "Wait for the service rollout to reach steady state",
		Long: `Wait polls the ECS service named by the descriptor until the current
rollout completes, fails, or the wait window closes.

A failed rollout exits non-zero: the deployment circuit breaker has
already rolled the service back. Running out of the window exits zero
with a warning, the rollout usually settles on its own.

Examples:
    cdk-webservice wait webservice.yaml
    cdk-webservice wait webservice.yaml --window 10m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWait(cmd.Context(), args[0], interval, window)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 10*time.Second, "Poll interval")
	cmd.Flags().DurationVar(&window, "window", 5*time.Minute, "Total wait window")

	return cmd
}

func runWait(ctx context.Context, path string, interval, window time.Duration) error {
	d, err := descriptor.Load(path)
	if err != nil {
		return err
	}
	r, err := descriptor.Resolve(d)
	if err != nil {
		return err
	}

	waiter, err := deploy.NewWaiter(r.Region)
	if err != nil {
		return err
	}
	waiter.Interval = interval
	waiter.Window = window

	cluster := naming.Resource(r.Prefix, "cluster")
	service := naming.Resource(r.Prefix, "service")
	fmt.Printf("Waiting for %s/%s (window %s)...\n", cluster, service, window)

	result, err := waiter.Wait(ctx, cluster, service)
	if err != nil {
		return err
	}

	switch result.Status {
	case deploy.StatusCompleted:
		fmt.Printf("Rollout complete: %d/%d tasks running (%s)\n", result.Running, result.Desired, result.Revision)
	case deploy.StatusTimedOut:
		fmt.Printf("WARNING: rollout still in progress after %s (%d/%d tasks running)\n", window, result.Running, result.Desired)
	}
	return nil
}
