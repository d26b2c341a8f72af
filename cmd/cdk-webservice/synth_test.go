package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDescriptor = `application: shop
service: api
environment: prod
account: "123456789012"
region: eu-central-1
runtime:
  port: 8080
`

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webservice.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunSynth_WritesJSONTemplate(t *testing.T) {
	path := writeDescriptor(t, testDescriptor)
	out := filepath.Join(filepath.Dir(path), "template.json")

	if err := runSynth(path, "json", out); err != nil {
		t.Fatalf("runSynth: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	var tmpl map[string]any
	if err := json.Unmarshal(data, &tmpl); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	resources, ok := tmpl["Resources"].(map[string]any)
	if !ok {
		t.Fatal("missing Resources section")
	}
	for _, name := range []string{"VPC", "Cluster", "Service", "LoadBalancer"} {
		if _, ok := resources[name]; !ok {
			t.Errorf("missing resource %s", name)
		}
	}
}

func TestRunSynth_YAMLFormat(t *testing.T) {
	path := writeDescriptor(t, testDescriptor)
	out := filepath.Join(filepath.Dir(path), "template.yaml")

	if err := runSynth(path, "yaml", out); err != nil {
		t.Fatalf("runSynth: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "AWS::ECS::Service") {
		t.Error("yaml output missing the service resource")
	}
}

func TestRunSynth_UnknownFormat(t *testing.T) {
	path := writeDescriptor(t, testDescriptor)
	if err := runSynth(path, "toml", ""); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunSynth_InvalidDescriptor(t *testing.T) {
	path := writeDescriptor(t, "application: shop\n")
	if err := runSynth(path, "json", ""); err == nil {
		t.Error("expected error for incomplete descriptor")
	}
}

func TestRunGraph_DOTOutput(t *testing.T) {
	path := writeDescriptor(t, testDescriptor)
	out := filepath.Join(filepath.Dir(path), "graph.dot")

	if err := runGraph(path, "dot", out, false); err != nil {
		t.Fatalf("runGraph: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "digraph") {
		t.Error("expected DOT output")
	}
}

func TestRunValidate_SkipLint(t *testing.T) {
	path := writeDescriptor(t, testDescriptor)

	if err := runValidate(path, "text", true); err != nil {
		t.Fatalf("runValidate: %v", err)
	}
}

func TestRunValidate_ReportsDescriptorErrors(t *testing.T) {
	path := writeDescriptor(t, "application: shop\nservice: api\n")

	if err := runValidate(path, "text", true); err == nil {
		t.Error("expected validation failure")
	}
}
