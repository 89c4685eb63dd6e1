package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	tables := []string{"stored_models", "conversations", "messages", "settings"}

	for _, table := range tables {
		var count int
		err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cadena.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer d.Close()

	if d.Path() != path {
		t.Errorf("Path() = %q, want %q", d.Path(), path)
	}
}

func TestSingleStoredModelSlot(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec(`INSERT INTO stored_models (slot, model_id) VALUES (2, 'x')`); err == nil {
		t.Error("expected slot constraint to reject a second model row")
	}
}

func TestMessagesCascadeWithConversation(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec(`INSERT INTO conversations (id, kind) VALUES ('c1', 'chat')`); err != nil {
		t.Fatalf("insert conversation: %v", err)
	}
	if _, err := d.Exec(`INSERT INTO messages (id, conversation_id, role, content) VALUES ('m1', 'c1', 'user', 'hi')`); err != nil {
		t.Fatalf("insert message: %v", err)
	}
	if _, err := d.Exec(`DELETE FROM conversations WHERE id = 'c1'`); err != nil {
		t.Fatalf("delete conversation: %v", err)
	}

	var count int
	if err := d.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected messages to cascade, %d left", count)
	}
}
