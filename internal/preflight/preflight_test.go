package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckTelegram_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botgood-token/getMe" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"username":"grab_bot"}}`))
	}))
	defer srv.Close()

	orig := telegramAPIBase
	telegramAPIBase = srv.URL
	defer func() { telegramAPIBase = orig }()

	result := CheckTelegram(context.Background(), "good-token")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result.Detail != "@grab_bot" {
		t.Fatalf("expected bot username in detail, got: %s", result.Detail)
	}
}

func TestCheckTelegram_BadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	orig := telegramAPIBase
	telegramAPIBase = srv.URL
	defer func() { telegramAPIBase = orig }()

	result := CheckTelegram(context.Background(), "bad-token")
	if result.Passed {
		t.Fatal("expected failure for rejected token")
	}
}

func TestReady(t *testing.T) {
	if !Ready([]Result{{Passed: true}, {Passed: true}}) {
		t.Fatal("all-passed results must be ready")
	}
	if Ready([]Result{{Passed: true}, {Passed: false}}) {
		t.Fatal("any failed result must not be ready")
	}
	if !Ready(nil) {
		t.Fatal("empty results are vacuously ready")
	}
}
