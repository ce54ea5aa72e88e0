package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Limit int `env:"CADRE_TEST_LIMIT" envDefault:"20"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Limit != 20 {
		t.Fatalf("expected default limit 20, got %d", cfg.Limit)
	}
}

func TestParseEnvReadsVariables(t *testing.T) {
	t.Setenv("CADRE_TEST_LIMIT", "7")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Limit != 7 {
		t.Fatalf("expected limit 7, got %d", cfg.Limit)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("CADRE_TEST_LIMIT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
