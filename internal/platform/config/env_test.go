package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	DBPath string `env:"GRIMOIRE_CARDS_TEST_DB_PATH" envDefault:"grimoire.db"`
	Locale string `env:"GRIMOIRE_CARDS_TEST_LOCALE"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.DBPath != "grimoire.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.Locale != "" {
		t.Fatalf("expected empty locale, got %q", cfg.Locale)
	}
}

func TestParseEnvOverride(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("GRIMOIRE_CARDS_TEST_LOCALE", "pt-BR")

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Locale != "pt-BR" {
		t.Fatalf("expected locale override, got %q", cfg.Locale)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg struct {
		Limit int `env:"GRIMOIRE_CARDS_TEST_LIMIT"`
	}
	t.Setenv("GRIMOIRE_CARDS_TEST_LIMIT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
