package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunInit_CreatesDescriptor(t *testing.T) {
	workspace := t.TempDir()

	if err := runInit(workspace, "shop-api"); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	path := filepath.Join(workspace, "shop-api", "webservice.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("descriptor not created: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "service: shop-api") {
		t.Error("descriptor missing the service name")
	}
	if !strings.Contains(content, "architecture: ARM64") {
		t.Error("descriptor missing the default architecture")
	}
}

func TestRunInit_GeneratedDescriptorSynthesizes(t *testing.T) {
	workspace := t.TempDir()

	if err := runInit(workspace, "billing"); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	path := filepath.Join(workspace, "billing", "webservice.yaml")
	if _, err := synthesizeDescriptor(path); err != nil {
		t.Errorf("starter descriptor should synthesize cleanly: %v", err)
	}
}

func TestRunInit_RejectsInvalidNames(t *testing.T) {
	workspace := t.TempDir()

	for _, name := range []string{"1service", "svc_underscore", "has space", ""} {
		if err := runInit(workspace, name); err == nil {
			t.Errorf("expected error for name %q", name)
		}
	}
}

func TestRunInit_RefusesExistingDirectory(t *testing.T) {
	workspace := t.TempDir()
	if err := os.Mkdir(filepath.Join(workspace, "taken"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := runInit(workspace, "taken"); err == nil {
		t.Error("expected error for existing directory")
	}
}

func TestNewWatchCmd_Flags(t *testing.T) {
	cmd := newWatchCmd()

	if cmd.Use != "watch [descriptor]" {
		t.Errorf("Use = %q, want 'watch [descriptor]'", cmd.Use)
	}

	flag := cmd.Flags().Lookup("debounce")
	if flag == nil {
		t.Fatal("missing --debounce flag")
	}
	if flag.DefValue != "500ms" {
		t.Errorf("debounce default = %q, want '500ms'", flag.DefValue)
	}
}

func TestNewWaitCmd_Flags(t *testing.T) {
	cmd := newWaitCmd()

	if cmd.Flags().Lookup("interval") == nil {
		t.Error("missing --interval flag")
	}
	flag := cmd.Flags().Lookup("window")
	if flag == nil {
		t.Fatal("missing --window flag")
	}
	if flag.DefValue != "5m0s" {
		t.Errorf("window default = %q, want '5m0s'", flag.DefValue)
	}
}
