package integration

import (
	"os"
	"testing"
)

// BaseURL points at a running API instance. Integration tests are skipped
// entirely when it is unset, so `go test ./...` stays green without a
// deployed stack.
var BaseURL = os.Getenv("INTEGRATION_BASE_URL")

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

func requireServer(t *testing.T) {
	t.Helper()
	if BaseURL == "" {
		t.Skip("INTEGRATION_BASE_URL not set, skipping integration test")
	}
}
