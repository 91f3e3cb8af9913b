package otel

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewProvidersEmptyEndpointIsNoop(t *testing.T) {
	p, err := NewProviders(context.Background(), "", "collab-canvas", false)
	if err != nil {
		t.Fatalf("NewProviders: %v", err)
	}
	if p.TracerProvider == nil || p.MeterProvider == nil || p.LoggerProvider == nil {
		t.Fatal("expected non-nil providers")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestNewProvidersRejectsUnparseableEndpoint(t *testing.T) {
	if _, err := NewProviders(context.Background(), "http://\x7f", "collab-canvas", false); err == nil {
		t.Fatal("expected error for unparseable endpoint")
	}
}

func TestNewLogrusHookNilProviderIsNoop(t *testing.T) {
	h := NewLogrusHook(nil)
	if levels := h.Levels(); len(levels) != 0 {
		t.Fatalf("expected no levels, got %v", levels)
	}
	if err := h.Fire(&logrus.Entry{}); err != nil {
		t.Fatalf("Fire: %v", err)
	}
}
