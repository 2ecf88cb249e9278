package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/clai/internal/domain"
	"github.com/doeshing/clai/internal/ports"
)

func sampleRecord(id, command string, level domain.SafetyLevel, at time.Time) domain.AuditRecord {
	return domain.AuditRecord{
		ID:        id,
		Timestamp: at,
		Command:   command,
		Level:     level,
		Reasons:   []string{level.String() + ": test reason"},
		Executed:  level == domain.SafetyGreen,
	}
}

func testStoreBehavior(t *testing.T, store ports.AuditRepository) {
	t.Helper()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	first := sampleRecord("id-1", "ls -la", domain.SafetyGreen, base)
	second := sampleRecord("id-2", "frobnicate", domain.SafetyYellow, base.Add(time.Minute))

	if err := store.Save(first); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Save(second); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	records, err := store.Records(0)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "id-2" {
		t.Fatalf("records should be newest first, got %q", records[0].ID)
	}
	if records[0].Level != domain.SafetyYellow || len(records[0].Reasons) != 1 {
		t.Fatalf("record content lost: %+v", records[0])
	}

	limited, err := store.Records(1)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit ignored: got %d records", len(limited))
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	records, err = store.Records(0)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty store after Clear, got %d", len(records))
	}
}

func TestFileStore(t *testing.T) {
	store := &FileStore{path: filepath.Join(t.TempDir(), "audit.jsonl")}
	testStoreBehavior(t, store)
}

func TestFileStoreEmpty(t *testing.T) {
	store := &FileStore{path: filepath.Join(t.TempDir(), "audit.jsonl")}
	records, err := store.Records(0)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	testStoreBehavior(t, store)
}

func TestSQLiteStoreFallsBackToFile(t *testing.T) {
	// A store whose database never opened degrades to jsonl alongside it.
	store := &SQLiteStore{path: filepath.Join(t.TempDir(), "audit.db")}
	testStoreBehavior(t, store)
}
