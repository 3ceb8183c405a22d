package otel

import (
	"context"
	"testing"
)

func TestNewProviders_EmptyEndpoint(t *testing.T) {
	p, err := NewProviders(context.Background(), "", "clinic-access-core", false)
	if err != nil {
		t.Fatalf("NewProviders: %v", err)
	}
	if p.TracerProvider == nil || p.MeterProvider == nil || p.LoggerProvider == nil {
		t.Fatal("providers should be non-nil no-ops")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestGRPCTarget(t *testing.T) {
	cases := []struct {
		name         string
		endpoint     string
		wantTarget   string
		wantInsecure bool
		wantErr      bool
	}{
		{"bare host:port", "localhost:4317", "localhost:4317", true, false},
		{"http url", "http://collector:4317", "collector:4317", true, false},
		{"https url", "https://collector:4317", "collector:4317", false, false},
		{"https with path", "https://collector:4317/v1/traces", "collector:4317", false, false},
		{"missing host", "http://", "", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target, insecure, err := grpcTarget(tc.endpoint, false)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("grpcTarget: %v", err)
			}
			if target != tc.wantTarget || insecure != tc.wantInsecure {
				t.Errorf("got (%q, %v), want (%q, %v)", target, insecure, tc.wantTarget, tc.wantInsecure)
			}
		})
	}
}

func TestGRPCTarget_InsecureOverride(t *testing.T) {
	_, insecure, err := grpcTarget("https://collector:4317", true)
	if err != nil {
		t.Fatalf("grpcTarget: %v", err)
	}
	if !insecure {
		t.Error("override should force insecure")
	}
}
