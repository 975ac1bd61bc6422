package config

import "testing"

func TestParseFillsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("module: myapp\nentry: src/main.ori\n"), "oric.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cache.Path != defaultCachePath {
		t.Fatalf("expected default cache path, got %q", cfg.Cache.Path)
	}
	if cfg.Diagnostics.Color != "auto" {
		t.Fatalf("expected default color mode auto, got %q", cfg.Diagnostics.Color)
	}
	if cfg.Emit.Target != "ir-proto" {
		t.Fatalf("expected default emit target, got %q", cfg.Emit.Target)
	}
}

func TestParseHonorsExplicitValues(t *testing.T) {
	src := `
module: myapp
entry: src/main.ori
cache:
  enabled: true
  path: .custom-cache.db
diagnostics:
  color: never
emit:
  target: 127.0.0.1:9090
`
	cfg, err := Parse([]byte(src), "oric.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Path != ".custom-cache.db" {
		t.Fatalf("expected explicit cache config preserved, got %+v", cfg.Cache)
	}
	if cfg.Diagnostics.Color != "never" {
		t.Fatalf("expected explicit color preserved, got %q", cfg.Diagnostics.Color)
	}
	if cfg.Emit.Target != "127.0.0.1:9090" {
		t.Fatalf("expected explicit emit target preserved, got %q", cfg.Emit.Target)
	}
}

func TestParseRejectsMissingModule(t *testing.T) {
	_, err := Parse([]byte("entry: src/main.ori\n"), "oric.yaml")
	if err == nil {
		t.Fatal("expected an error for a missing module field")
	}
}

func TestParseRejectsInvalidColorMode(t *testing.T) {
	src := "module: m\nentry: e.ori\ndiagnostics:\n  color: bright\n"
	_, err := Parse([]byte(src), "oric.yaml")
	if err == nil {
		t.Fatal("expected an error for an invalid diagnostics.color value")
	}
}
