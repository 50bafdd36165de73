package daemon_test

import (
	"context"
	"os"
	"testing"

	"grabbot/internal/daemon"
	"grabbot/internal/logging"
	"grabbot/internal/testsupport"
)

func TestDaemonLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, err := daemon.New(cfg, testsupport.NewChatAPI(), logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer d.Close()

	if d.Running() {
		t.Fatal("daemon must not run before Start")
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !d.Running() {
		t.Fatal("daemon must report running after Start")
	}
	if _, err := os.Stat(d.LockPath()); err != nil {
		t.Fatalf("expected lock file at %s: %v", d.LockPath(), err)
	}

	d.Stop()
	if d.Running() {
		t.Fatal("daemon must not report running after Stop")
	}
}

func TestSecondInstanceRefused(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first, err := daemon.New(cfg, testsupport.NewChatAPI(), logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer first.Close()
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	second, err := daemon.New(cfg, testsupport.NewChatAPI(), logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer second.Close()
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second instance must fail to acquire the lock")
	}
}

func TestStartTwiceFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, err := daemon.New(cfg, testsupport.NewChatAPI(), logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer d.Close()

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := d.Start(context.Background()); err == nil {
		t.Fatal("second Start must fail while running")
	}
}

func TestDirectoriesCreated(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, err := daemon.New(cfg, testsupport.NewChatAPI(), logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer d.Close()

	for _, dir := range []string{cfg.Paths.DownloadDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
