package deps_test

import (
	"testing"

	"grabbot/internal/deps"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "Bogus", Command: "grabbot-test-binary-that-does-not-exist"},
		{Name: "Unset", Command: ""},
	})
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if statuses[1].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %q", statuses[1].Detail)
	}
}

func TestCheckBinariesFindsShell(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{{Name: "sh", Command: "sh"}})
	if !statuses[0].Available {
		t.Fatalf("expected sh to be available: %+v", statuses[0])
	}
}
