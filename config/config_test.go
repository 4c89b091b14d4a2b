package config

import "testing"

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{"a.s"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Debug || cfg.Detail {
		t.Fatalf("cfg = %+v, want debug/detail both false by default", cfg)
	}
	if cfg.Timeout != defaultTimeout {
		t.Fatalf("Timeout = %d, want %d", cfg.Timeout, defaultTimeout)
	}
	if len(cfg.Inputs) != 1 || cfg.Inputs[0] != "a.s" {
		t.Fatalf("Inputs = %v", cfg.Inputs)
	}
}

func TestParseFlagsAndMultipleInputs(t *testing.T) {
	cfg, err := Parse([]string{"-debug", "-detail", "-timeout", "5", "a.s", "b.s"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.Debug || !cfg.Detail || cfg.Timeout != 5 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.Inputs) != 2 {
		t.Fatalf("Inputs = %v, want 2 entries", cfg.Inputs)
	}
}

func TestParseRequiresAtLeastOneInput(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatal("expected an error with no input files")
	}
}
