package database

import (
	"path/filepath"
	"testing"
	"time"
)

func setupRepository(t *testing.T) *ImageRepository {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return NewImageRepository(db)
}

func TestImageCacheRoundTrip(t *testing.T) {
	repo := setupRepository(t)

	value := `{"url":"https://img.example/a.jpg"}`
	if err := repo.Put("key-1", "schnitzel", &value, time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}

	got, hit, err := repo.Get("key-1")
	if err != nil {
		t.Fatalf("Failed to read entry: %v", err)
	}
	if !hit {
		t.Fatal("Expected a cache hit")
	}
	if got == nil || *got != value {
		t.Errorf("Unexpected cached value: %v", got)
	}
}

func TestImageCacheMiss(t *testing.T) {
	repo := setupRepository(t)

	_, hit, err := repo.Get("unknown")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if hit {
		t.Error("Expected a miss for an unknown key")
	}
}

func TestImageCacheNegativeEntry(t *testing.T) {
	repo := setupRepository(t)

	if err := repo.Put("key-1", "nichts", nil, time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("Failed to write negative entry: %v", err)
	}

	got, hit, err := repo.Get("key-1")
	if err != nil {
		t.Fatalf("Failed to read entry: %v", err)
	}
	if !hit {
		t.Fatal("Expected a negative entry to count as a hit")
	}
	if got != nil {
		t.Errorf("Expected nil value for a negative entry, got: %v", *got)
	}
}

func TestImageCacheExpiredEntryIsMiss(t *testing.T) {
	repo := setupRepository(t)

	value := `{"url":"https://img.example/a.jpg"}`
	if err := repo.Put("key-1", "schnitzel", &value, time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}

	_, hit, err := repo.Get("key-1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if hit {
		t.Error("Expected an expired entry to be a miss")
	}
}

func TestImageCacheOverwrite(t *testing.T) {
	repo := setupRepository(t)

	first := `{"url":"https://img.example/old.jpg"}`
	second := `{"url":"https://img.example/new.jpg"}`
	expires := time.Now().UTC().Add(time.Hour)

	if err := repo.Put("key-1", "schnitzel", &first, expires); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	if err := repo.Put("key-1", "schnitzel", &second, expires); err != nil {
		t.Fatalf("Failed to overwrite entry: %v", err)
	}

	got, hit, err := repo.Get("key-1")
	if err != nil || !hit {
		t.Fatalf("Expected a hit, got hit=%v err=%v", hit, err)
	}
	if *got != second {
		t.Errorf("Expected overwritten value, got: %s", *got)
	}

	count, err := repo.EntryCount()
	if err != nil {
		t.Fatalf("Failed to count entries: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 entry after overwrite, got: %d", count)
	}
}

func TestImageCacheDeleteExpired(t *testing.T) {
	repo := setupRepository(t)

	value := `{"url":"https://img.example/a.jpg"}`
	if err := repo.Put("live", "a", &value, time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	if err := repo.Put("stale", "b", &value, time.Now().UTC().Add(-time.Hour)); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}

	pruned, err := repo.DeleteExpired()
	if err != nil {
		t.Fatalf("Failed to prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("Expected 1 pruned row, got: %d", pruned)
	}

	count, err := repo.EntryCount()
	if err != nil {
		t.Fatalf("Failed to count entries: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 remaining entry, got: %d", count)
	}
}
