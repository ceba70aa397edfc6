package store

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := st.Set(KeyTasks, []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, found, err := st.Get(KeyTasks)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("Key should be found after Set")
	}
	if !bytes.Equal(data, []byte(`[{"id":1}]`)) {
		t.Errorf("Unexpected data: %s", data)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	data, found, err := st.Get(KeySettings)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("Missing key should report found=false")
	}
	if data != nil {
		t.Errorf("Missing key should yield nil data, got %s", data)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	st.Set(KeyInventory, []byte(`old`))
	if err := st.Set(KeyInventory, []byte(`new`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	data, _, _ := st.Get(KeyInventory)
	if string(data) != "new" {
		t.Errorf("Expected overwritten value, got %s", data)
	}
}

func TestFileStoreCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore should create missing directories: %v", err)
	}
	if err := st.Set(KeyShopping, []byte(`[]`)); err != nil {
		t.Fatalf("Set in created dir: %v", err)
	}
}
