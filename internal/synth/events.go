package synth

import (
	"github.com/thunder-so/cdk-webservice/internal/descriptor"
	"github.com/thunder-so/cdk-webservice/internal/naming"
	"github.com/thunder-so/cdk-webservice/internal/template"
	. "github.com/thunder-so/cdk-webservice/intrinsics"
	"github.com/thunder-so/cdk-webservice/resources/events"
	"github.com/thunder-so/cdk-webservice/resources/iam"
)

// pipelineStates are the CodePipeline execution states forwarded to the
// event bus. Matches every lifecycle transition, not just terminal ones.
var pipelineStates = Any(
	"STARTED",
	"SUCCEEDED",
	"FAILED",
	"CANCELED",
	"SUPERSEDED",
	"RESUMED",
)

// declareEvents declares the rule that forwards pipeline execution state
// changes to the configured event bus, plus an optional debug log group that
// captures the same events locally.
func declareEvents(b *template.Builder, r *descriptor.Resolved) {
	pattern := Json{
		"source":      Any("aws.codepipeline"),
		"detail-type": Any("CodePipeline Pipeline Execution State Change"),
		"detail": Json{
			"pipeline": Any(naming.Resource(r.Prefix, "pipeline")),
			"state":    pipelineStates,
		},
	}

	var targets []events.Target

	if r.Events.BusARN != "" {
		b.Add("EventBusRole", iam.Role{
			RoleName: naming.Resource(r.Prefix, "events-role"),
			AssumeRolePolicyDocument: NewPolicyDocument(PolicyStatement{
				Effect:    "Allow",
				Principal: ServicePrincipal{"events.amazonaws.com"},
				Action:    "sts:AssumeRole",
			}),
			Policies: []iam.Policy{{
				PolicyName: "forward",
				PolicyDocument: NewPolicyDocument(PolicyStatement{
					Effect:   "Allow",
					Action:   "events:PutEvents",
					Resource: r.Events.BusARN,
				}),
			}},
			Tags: nameTag(r, "events-role"),
		})
		targets = append(targets, events.Target{
			Arn:     r.Events.BusARN,
			Id:      "bus",
			RoleArn: GetAtt{LogicalName: "EventBusRole", Attribute: "Arn"},
		})
	}

	if r.Events.Debug {
		b.Add("EventsLogGroup", logGroup("/aws/events/"+r.Prefix, 7))
		targets = append(targets, events.Target{
			Arn: GetAtt{LogicalName: "EventsLogGroup", Attribute: "Arn"},
			Id:  "debug-log",
		})
	}

	b.Add("PipelineEventsRule", events.Rule{
		Name:         naming.Resource(r.Prefix, "pipeline-events"),
		Description:  "Forwards pipeline execution state changes for " + r.Prefix,
		EventPattern: pattern,
		State:        "ENABLED",
		Targets:      targets,
	})
}
