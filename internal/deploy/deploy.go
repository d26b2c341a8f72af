// Package deploy watches a service rollout after the pipeline (or a manual
// update) registers a new task revision. It polls the service's primary
// deployment until the rollout completes, fails, or the wait window closes.
//
// A failed rollout is a hard error: the deployment circuit breaker has
// already rolled the service back. Running out of the wait window is not;
// the rollout usually finishes on its own shortly after.
package deploy

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/cenkalti/backoff/v4"
)

// ECSClient is the subset of the ECS API the waiter needs.
type ECSClient interface {
	DescribeServicesWithContext(ctx aws.Context, input *ecs.DescribeServicesInput, opts ...request.Option) (*ecs.DescribeServicesOutput, error)
}

// Status is the outcome of one rollout wait.
type Status string

const (
	// StatusCompleted means the primary deployment reached steady state.
	StatusCompleted Status = "completed"
	// StatusFailed means the rollout failed and the circuit breaker rolled
	// the service back.
	StatusFailed Status = "failed"
	// StatusTimedOut means the wait window closed before the rollout
	// settled either way.
	StatusTimedOut Status = "timed-out"
)

// Result describes how the wait ended.
type Result struct {
	Status Status
	// Revision is the task definition of the primary deployment.
	Revision string
	// Running and Desired are the task counts at the last poll.
	Running int64
	Desired int64
}

// Waiter polls one service until its primary deployment settles.
type Waiter struct {
	client ECSClient

	// Interval is the base poll interval. Defaults to 10s.
	Interval time.Duration
	// Window bounds the total wait. Defaults to 5m.
	Window time.Duration
}

// NewWaiter creates a waiter for the given region using the default
// credential chain.
func NewWaiter(region string) (*Waiter, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return &Waiter{client: ecs.New(sess)}, nil
}

// NewWaiterWithClient creates a waiter around an existing client.
func NewWaiterWithClient(client ECSClient) *Waiter {
	return &Waiter{client: client}
}

// errRolloutInProgress signals backoff to keep polling.
var errRolloutInProgress = fmt.Errorf("rollout in progress")

// Wait polls until the primary deployment completes, fails, or the window
// closes. Only a failed rollout (or an API error) returns a non-nil error.
func (w *Waiter) Wait(ctx context.Context, cluster, service string) (*Result, error) {
	interval := w.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	window := w.Window
	if window <= 0 {
		window = 5 * time.Minute
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = interval
	bo.MaxInterval = interval * 3
	bo.MaxElapsedTime = window

	var last *Result
	err := backoff.Retry(func() error {
		result, err := w.poll(ctx, cluster, service)
		if err != nil {
			return backoff.Permanent(err)
		}
		last = result

		switch result.Status {
		case StatusCompleted:
			return nil
		case StatusFailed:
			return backoff.Permanent(fmt.Errorf("rollout failed, service rolled back to the previous revision"))
		default:
			return errRolloutInProgress
		}
	}, backoff.WithContext(bo, ctx))

	if err != nil {
		if err == errRolloutInProgress {
			// The window closed while the rollout was still moving.
			last.Status = StatusTimedOut
			return last, nil
		}
		return last, err
	}
	return last, nil
}

// poll reads the service and classifies its primary deployment.
func (w *Waiter) poll(ctx context.Context, cluster, service string) (*Result, error) {
	out, err := w.client.DescribeServicesWithContext(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(cluster),
		Services: []*string{aws.String(service)},
	})
	if err != nil {
		return nil, fmt.Errorf("describing service %s: %w", service, err)
	}
	if len(out.Services) == 0 {
		return nil, fmt.Errorf("service %s not found in cluster %s", service, cluster)
	}

	svc := out.Services[0]
	result := &Result{
		Status:  StatusTimedOut,
		Running: aws.Int64Value(svc.RunningCount),
		Desired: aws.Int64Value(svc.DesiredCount),
	}

	for _, d := range svc.Deployments {
		if aws.StringValue(d.Status) != "PRIMARY" {
			continue
		}
		result.Revision = aws.StringValue(d.TaskDefinition)
		switch aws.StringValue(d.RolloutState) {
		case ecs.DeploymentRolloutStateCompleted:
			result.Status = StatusCompleted
		case ecs.DeploymentRolloutStateFailed:
			result.Status = StatusFailed
		}
		return result, nil
	}

	return nil, fmt.Errorf("service %s has no primary deployment", service)
}
