package descriptor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid() *Descriptor {
	return &Descriptor{
		Application: "shop",
		Service:     "api",
		Environment: "prod",
		Account:     "123456789012",
		Region:      "eu-central-1",
	}
}

func TestResolve_AppliesDefaults(t *testing.T) {
	r, err := Resolve(valid())
	require.NoError(t, err)

	assert.Equal(t, ".", r.Build.SourceDir)
	assert.Equal(t, "Dockerfile", r.Build.Dockerfile)
	assert.Equal(t, ArchARM64, r.Build.Architecture)
	assert.Equal(t, 256, r.Runtime.CPU)
	assert.Equal(t, 512, r.Runtime.Memory)
	assert.Equal(t, 1, r.Runtime.DesiredCount)
	assert.Equal(t, 3000, r.Runtime.Port)
	assert.Equal(t, "/", r.Runtime.HealthCheckPath)
	assert.Equal(t, "shop-api-prod", r.Prefix)
}

func TestResolve_KeepsExplicitValues(t *testing.T) {
	d := valid()
	d.Runtime = Runtime{CPU: 1024, Memory: 2048, DesiredCount: 3, Port: 8080, HealthCheckPath: "/health"}
	d.Build.Architecture = ArchX86_64

	r, err := Resolve(d)
	require.NoError(t, err)

	assert.Equal(t, 1024, r.Runtime.CPU)
	assert.Equal(t, 8080, r.Runtime.Port)
	assert.Equal(t, ArchX86_64, r.Build.Architecture)
}

func TestResolve_MissingMandatoryFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Descriptor)
	}{
		{"application", func(d *Descriptor) { d.Application = "" }},
		{"service", func(d *Descriptor) { d.Service = "" }},
		{"environment", func(d *Descriptor) { d.Environment = "" }},
		{"account", func(d *Descriptor) { d.Account = "" }},
		{"region", func(d *Descriptor) { d.Region = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			d := valid()
			tt.mutate(d)

			_, err := Resolve(d)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestResolve_WhitespaceOnlyIsMissing(t *testing.T) {
	d := valid()
	d.Service = "   "
	_, err := Resolve(d)
	require.Error(t, err)
}

func TestResolve_PartialDomainFails(t *testing.T) {
	tests := []struct {
		name   string
		domain *Domain
	}{
		{"zone missing", &Domain{Name: "shop.example.com", CertificateARN: "arn:aws:acm:::cert"}},
		{"cert missing", &Domain{Name: "shop.example.com", HostedZoneID: "Z123"}},
		{"name missing", &Domain{HostedZoneID: "Z123", CertificateARN: "arn:aws:acm:::cert"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			d.Domain = tt.domain
			_, err := Resolve(d)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Field, "domain")
		})
	}
}

func TestResolve_CompleteDomainOK(t *testing.T) {
	d := valid()
	d.Domain = &Domain{
		Name:           "shop.example.com",
		HostedZoneID:   "Z123456",
		CertificateARN: "arn:aws:acm:eu-central-1:123456789012:certificate/abc",
	}
	_, err := Resolve(d)
	require.NoError(t, err)
}

func TestResolve_PartialSourceFails(t *testing.T) {
	// Token configured but repository owner missing: the pipeline must not
	// be declared at all.
	d := valid()
	d.Source = &Source{
		Repo:                 "shop-api",
		Branch:               "main",
		AccessTokenSecretARN: "arn:aws:secretsmanager:::gh-token",
	}

	_, err := Resolve(d)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "source.owner", verr.Field)
}

func TestResolve_InvalidArchitecture(t *testing.T) {
	d := valid()
	d.Build.Architecture = "SPARC"
	_, err := Resolve(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "architecture")
}

func TestResolve_EventsRequireBusOrDebug(t *testing.T) {
	d := valid()
	d.Source = &Source{Owner: "thunder-so", Repo: "shop-api", Branch: "main", AccessTokenSecretARN: "arn:gh"}
	d.Events = &Events{}
	_, err := Resolve(d)
	require.Error(t, err)

	d.Events = &Events{Debug: true}
	_, err = Resolve(d)
	require.NoError(t, err)
}

func TestResolve_EventsRequirePipeline(t *testing.T) {
	// Events forward pipeline state transitions; without a source binding
	// there is no pipeline to observe.
	d := valid()
	d.Events = &Events{BusARN: "arn:aws:events:eu-central-1:999999999999:event-bus/ci"}
	_, err := Resolve(d)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "events", verr.Field)
}

func TestLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webservice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
application: shop
service: api
environment: prod
account: "123456789012"
region: eu-central-1
runtime:
  port: 8080
source:
  owner: thunder-so
  repo: shop-api
  branch: main
  accessTokenSecretArn: arn:aws:secretsmanager:eu-central-1:123456789012:secret:gh
`), 0644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shop", d.Application)
	assert.Equal(t, 8080, d.Runtime.Port)
	require.NotNil(t, d.Source)
	assert.Equal(t, "thunder-so", d.Source.Owner)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webservice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
application: shop
servcie: api
`), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_EnvironmentFallback(t *testing.T) {
	t.Setenv("AWS_ACCOUNT_ID", "999999999999")
	t.Setenv("AWS_REGION", "us-east-1")

	dir := t.TempDir()
	path := filepath.Join(dir, "webservice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
application: shop
service: api
environment: prod
`), 0644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "999999999999", d.Account)
	assert.Equal(t, "us-east-1", d.Region)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
