// Package synth turns a resolved deployment descriptor into a complete
// CloudFormation template. Declaration is deterministic: the same descriptor
// always produces the same logical names and the same serialized template,
// so repeated runs diff clean.
//
// The subsystems declare in a fixed order. The network and the service are
// always present; the delivery pipeline and the event forwarding only when
// the descriptor opts in.
package synth

import (
	"fmt"

	cdkwebservice "github.com/thunder-so/cdk-webservice"
	"github.com/thunder-so/cdk-webservice/internal/descriptor"
	"github.com/thunder-so/cdk-webservice/internal/template"
	"github.com/thunder-so/cdk-webservice/resources/logs"

	. "github.com/thunder-so/cdk-webservice/intrinsics"
)

// Synthesize declares every resource for the resolved descriptor and builds
// the final template.
func Synthesize(r *descriptor.Resolved) (*cdkwebservice.Template, error) {
	b := template.NewBuilder(fmt.Sprintf("Web service %s/%s (%s)", r.Application, r.Service, r.Environment))

	declareNetwork(b, r)
	declareService(b, r)

	if r.Source != nil {
		if err := declarePipeline(b, r); err != nil {
			return nil, err
		}
	}
	if r.Events != nil {
		declareEvents(b, r)
	}

	declareOutputs(b, r)

	return b.Build()
}

// declareOutputs publishes the endpoints a caller needs after deployment.
func declareOutputs(b *template.Builder, r *descriptor.Resolved) {
	b.AddOutput("LoadBalancerDNS", cdkwebservice.Output{
		Description: "Load balancer DNS name",
		Value:       GetAtt{LogicalName: "LoadBalancer", Attribute: "DNSName"},
		Export:      &cdkwebservice.Export{Name: r.Prefix + "-lb-dns"},
	})

	url := any(Sub{String: "http://${LoadBalancer.DNSName}"})
	if r.Domain != nil {
		url = "https://" + r.Domain.Name
	}
	b.AddOutput("ServiceURL", cdkwebservice.Output{
		Description: "Public URL of the service",
		Value:       url,
	})

	if r.Source != nil {
		b.AddOutput("PipelineName", cdkwebservice.Output{
			Description: "Continuous delivery pipeline",
			Value:       Ref{LogicalName: "Pipeline"},
		})
	}
}

// logGroup is shared by the service log group and the events debug group.
func logGroup(name string, retentionDays int) logs.LogGroup {
	return logs.LogGroup{
		LogGroupName:    name,
		RetentionInDays: retentionDays,
	}
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}
