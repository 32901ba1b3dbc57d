package otel

import (
	"context"
	"testing"
)

func TestSetupDisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("GRIMOIRE_CARDS_OTEL_ENDPOINT", "")

	shutdown, err := Setup(context.Background(), "grimoire")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected shutdown function")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestSetupDisabledExplicitly(t *testing.T) {
	t.Setenv("GRIMOIRE_CARDS_OTEL_ENABLED", "FALSE")
	t.Setenv("GRIMOIRE_CARDS_OTEL_ENDPOINT", "http://localhost:4318")

	shutdown, err := Setup(context.Background(), "grimoire")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}
