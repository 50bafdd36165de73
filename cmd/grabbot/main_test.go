package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the command tree with args, capturing stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setupCLIEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BOT_TOKEN", "test-token")
}

func TestConfigInitWritesSample(t *testing.T) {
	setupCLIEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected output: %s", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init must refuse to overwrite.
	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error on existing config file")
	}
}

func TestConfigValidateWithDefaults(t *testing.T) {
	setupCLIEnv(t)

	out, err := runCLI(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestConfigShowRedactsToken(t *testing.T) {
	setupCLIEnv(t)

	out, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "test-token") {
		t.Fatal("token must not appear in config show output")
	}
	if !strings.Contains(out, "<set>") {
		t.Fatalf("expected redacted token marker, got: %s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "grabbot") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestRootShowsHelp(t *testing.T) {
	setupCLIEnv(t)

	out, err := runCLI(t)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if !strings.Contains(out, "Telegram media download bot") {
		t.Fatalf("expected help text, got: %s", out)
	}
}
