package httpapi

import "testing"

func TestShouldTraceRequest_HealthPaths(t *testing.T) {
	paths := []string{"/healthz", "/health", "/livez", "/readyz", " /healthz "}
	for _, path := range paths {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
}

func TestShouldTraceRequest_NonHealthPaths(t *testing.T) {
	paths := []string{"/v1/games/g1/stats/teams", "/v1/seasons/2026/games", "/", "/docs"}
	for _, path := range paths {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}

func TestShouldTraceRequest_SkipsStatsStream(t *testing.T) {
	if shouldTraceRequest("/v1/games/g1/stats/stream") {
		t.Fatalf("expected no tracing for the long-lived stats stream")
	}
}
