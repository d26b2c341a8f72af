// Package descriptor loads, validates, and normalizes the deployment
// descriptor that drives the whole synthesis. Validation fails fast: a
// descriptor error surfaces before any resource is declared.
package descriptor

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/thunder-so/cdk-webservice/internal/naming"
)

// Fargate CPU architecture values.
const (
	ArchARM64  = "ARM64"
	ArchX86_64 = "X86_64"
)

// Descriptor is the single configuration object for one web service in one
// environment.
type Descriptor struct {
	Application string `yaml:"application"`
	Service     string `yaml:"service"`
	Environment string `yaml:"environment"`
	Account     string `yaml:"account"`
	Region      string `yaml:"region"`

	Build   Build             `yaml:"build"`
	Runtime Runtime           `yaml:"runtime"`
	Env     map[string]string `yaml:"env"`
	Secrets map[string]string `yaml:"secrets"`

	Domain *Domain `yaml:"domain"`
	Source *Source `yaml:"source"`
	Events *Events `yaml:"events"`
}

// Build holds the container build parameters.
type Build struct {
	SourceDir    string            `yaml:"sourceDir"`
	Dockerfile   string            `yaml:"dockerfile"`
	Args         map[string]string `yaml:"args"`
	Architecture string            `yaml:"architecture"`
	// Buildpack selects Dockerfile synthesis via nixpacks instead of a
	// checked-in Dockerfile.
	Buildpack bool `yaml:"buildpack"`
}

// Runtime holds the task sizing and listener port.
type Runtime struct {
	CPU             int    `yaml:"cpu"`
	Memory          int    `yaml:"memory"`
	DesiredCount    int    `yaml:"desiredCount"`
	Port            int    `yaml:"port"`
	HealthCheckPath string `yaml:"healthCheckPath"`
}

// Domain is the optional custom-domain binding. All three fields are
// required together.
type Domain struct {
	Name           string `yaml:"name"`
	HostedZoneID   string `yaml:"hostedZoneId"`
	CertificateARN string `yaml:"certificateArn"`
}

// Source is the optional CI source binding. All four fields are required
// together.
type Source struct {
	Owner                string `yaml:"owner"`
	Repo                 string `yaml:"repo"`
	Branch               string `yaml:"branch"`
	AccessTokenSecretARN string `yaml:"accessTokenSecretArn"`
}

// Events is the optional pipeline notification config.
type Events struct {
	BusARN string `yaml:"busArn"`
	Debug  bool   `yaml:"debug"`
}

// Resolved is a validated descriptor with defaults applied and the resource
// name prefix derived. Optional groups are resolved once: a nil group means
// the subsystem is not declared at all.
type Resolved struct {
	Descriptor

	// Prefix namespaces every declared resource name.
	Prefix string
}

// ValidationError reports a missing or inconsistent descriptor field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid descriptor: %s: %s", e.Field, e.Reason)
}

// Load reads a descriptor YAML file. A .env file next to the working
// directory seeds the process environment first, so account and region can
// stay out of committed config; AWS_ACCOUNT_ID and AWS_REGION fill those
// fields when the file leaves them empty.
func Load(path string) (*Descriptor, error) {
	// Missing .env is fine; it is a local convenience only.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}

	var d Descriptor
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("parsing descriptor %s: %w", path, err)
	}

	if d.Account == "" {
		d.Account = os.Getenv("AWS_ACCOUNT_ID")
	}
	if d.Region == "" {
		d.Region = os.Getenv("AWS_REGION")
	}

	return &d, nil
}

// Resolve validates the descriptor and applies defaults. It is the only path
// to a Resolved value, so downstream code never re-checks mandatory fields.
func Resolve(d *Descriptor) (*Resolved, error) {
	if err := validate(d); err != nil {
		return nil, err
	}

	r := &Resolved{Descriptor: *d}

	if r.Build.SourceDir == "" {
		r.Build.SourceDir = "."
	}
	if r.Build.Dockerfile == "" {
		r.Build.Dockerfile = "Dockerfile"
	}
	if r.Build.Architecture == "" {
		r.Build.Architecture = ArchARM64
	}
	if r.Runtime.CPU == 0 {
		r.Runtime.CPU = 256
	}
	if r.Runtime.Memory == 0 {
		r.Runtime.Memory = 512
	}
	if r.Runtime.DesiredCount == 0 {
		r.Runtime.DesiredCount = 1
	}
	if r.Runtime.Port == 0 {
		r.Runtime.Port = 3000
	}
	if r.Runtime.HealthCheckPath == "" {
		r.Runtime.HealthCheckPath = "/"
	}

	r.Prefix = naming.Prefix(r.Application, r.Service, r.Environment)

	return r, nil
}

func validate(d *Descriptor) error {
	for _, f := range []struct {
		name  string
		value string
	}{
		{"application", d.Application},
		{"service", d.Service},
		{"environment", d.Environment},
		{"account", d.Account},
		{"region", d.Region},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Reason: "is required"}
		}
	}

	if d.Build.Architecture != "" &&
		d.Build.Architecture != ArchARM64 && d.Build.Architecture != ArchX86_64 {
		return &ValidationError{
			Field:  "build.architecture",
			Reason: fmt.Sprintf("must be %s or %s", ArchARM64, ArchX86_64),
		}
	}

	if d.Domain != nil {
		switch {
		case d.Domain.Name == "":
			return &ValidationError{Field: "domain.name", Reason: "is required when domain is set"}
		case d.Domain.HostedZoneID == "":
			return &ValidationError{Field: "domain.hostedZoneId", Reason: "is required when domain is set"}
		case d.Domain.CertificateARN == "":
			return &ValidationError{Field: "domain.certificateArn", Reason: "is required when domain is set"}
		}
	}

	if d.Source != nil {
		switch {
		case d.Source.Owner == "":
			return &ValidationError{Field: "source.owner", Reason: "is required when source is set"}
		case d.Source.Repo == "":
			return &ValidationError{Field: "source.repo", Reason: "is required when source is set"}
		case d.Source.Branch == "":
			return &ValidationError{Field: "source.branch", Reason: "is required when source is set"}
		case d.Source.AccessTokenSecretARN == "":
			return &ValidationError{Field: "source.accessTokenSecretArn", Reason: "is required when source is set"}
		}
	}

	if d.Events != nil {
		if d.Source == nil {
			return &ValidationError{Field: "events", Reason: "requires a source (pipeline) configuration"}
		}
		if d.Events.BusARN == "" && !d.Events.Debug {
			return &ValidationError{Field: "events", Reason: "requires busArn or debug"}
		}
	}

	return nil
}
