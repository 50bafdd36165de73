package selection_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"grabbot/internal/selection"
)

func TestPopReturnsRegisteredEntryOnce(t *testing.T) {
	store := selection.NewStore()
	store.Register("7", "https://example/video", 1)

	entry, err := store.Pop("7", 1)
	if err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	if entry.URL != "https://example/video" || entry.RequesterID != 1 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	if _, err := store.Pop("7", 1); !errors.Is(err, selection.ErrExpired) {
		t.Fatalf("expected ErrExpired on second pop, got %v", err)
	}
}

func TestPopUnknownIDIsExpired(t *testing.T) {
	store := selection.NewStore()
	if _, err := store.Pop("99", 1); !errors.Is(err, selection.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestPopByOtherUserRemovesEntry(t *testing.T) {
	store := selection.NewStore()
	store.Register("7", "https://example/video", 1)

	if _, err := store.Pop("7", 2); !errors.Is(err, selection.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	// The mismatched press consumed the entry.
	if _, err := store.Pop("7", 1); !errors.Is(err, selection.ErrExpired) {
		t.Fatalf("expected ErrExpired after mismatched pop, got %v", err)
	}
}

func TestRegisterOverwritesSameID(t *testing.T) {
	store := selection.NewStore()
	store.Register("7", "https://first", 1)
	store.Register("7", "https://second", 1)

	entry, err := store.Pop("7", 1)
	if err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	if entry.URL != "https://second" {
		t.Fatalf("expected last writer to win, got %q", entry.URL)
	}
}

func TestConcurrentPopSingleWinner(t *testing.T) {
	store := selection.NewStore()
	store.Register("7", "https://example", 1)

	const callers = 16
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Pop("7", 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, selection.ErrExpired) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one successful pop, got %d", successes)
	}
}

func TestLen(t *testing.T) {
	store := selection.NewStore()
	for i := 0; i < 3; i++ {
		store.Register(fmt.Sprintf("%d", i), "https://example", 1)
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 pending selections, got %d", store.Len())
	}
}
