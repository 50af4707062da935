package assets

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// pngBytes returns a payload carrying the PNG magic number
func pngBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
	return data
}

func newTestStore(t *testing.T, maxBytes int64) (Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewDiskStore(dir, maxBytes, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create disk store: %v", err)
	}
	return store, dir
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read upload dir: %v", err)
	}
	return entries
}

func TestSaveStoresValidImageUnderGeneratedName(t *testing.T) {
	store, dir := newTestStore(t, 0)

	payload := pngBytes(256)
	name, err := store.Save("holiday photo.png", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !strings.HasSuffix(name, ".png") {
		t.Errorf("Stored name %q should keep the original extension", name)
	}
	if strings.Contains(name, "holiday") {
		t.Errorf("Stored name %q must not derive from the client-supplied name", name)
	}

	stored, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("Stored file unreadable: %v", err)
	}
	if !bytes.Equal(stored, payload) {
		t.Error("Stored bytes differ from the uploaded payload")
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store, _ := newTestStore(t, 0)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		name, err := store.Save("a.png", bytes.NewReader(pngBytes(64)))
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if seen[name] {
			t.Fatalf("Name %q generated twice", name)
		}
		seen[name] = true
	}
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	store, dir := newTestStore(t, 0)

	for _, name := range []string{"setup.exe", "notes.txt", "archive.png.zip", "noextension"} {
		_, err := store.Save(name, bytes.NewReader(pngBytes(64)))
		if !errors.Is(err, ErrInvalidAssetType) {
			t.Errorf("Save(%q) error = %v, want ErrInvalidAssetType", name, err)
		}
	}

	if entries := dirEntries(t, dir); len(entries) != 0 {
		t.Errorf("Rejected uploads left %d files behind", len(entries))
	}
}

func TestSaveRejectsMismatchedContent(t *testing.T) {
	store, dir := newTestStore(t, 0)

	// Extension says image, bytes say plain text
	_, err := store.Save("fake.png", strings.NewReader("#!/bin/sh\nrm -rf /\n"))
	if !errors.Is(err, ErrInvalidAssetType) {
		t.Errorf("Save error = %v, want ErrInvalidAssetType", err)
	}

	if entries := dirEntries(t, dir); len(entries) != 0 {
		t.Errorf("Rejected uploads left %d files behind", len(entries))
	}
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store, dir := newTestStore(t, 128)

	_, err := store.Save("big.png", bytes.NewReader(pngBytes(4096)))
	if !errors.Is(err, ErrAssetTooLarge) {
		t.Fatalf("Save error = %v, want ErrAssetTooLarge", err)
	}

	// The partial file must not survive the rejection
	if entries := dirEntries(t, dir); len(entries) != 0 {
		t.Errorf("Oversized upload left %d files behind", len(entries))
	}
}

func TestSaveAcceptsFileAtExactLimit(t *testing.T) {
	store, _ := newTestStore(t, 128)

	if _, err := store.Save("ok.png", bytes.NewReader(pngBytes(128))); err != nil {
		t.Errorf("Save at exact size limit failed: %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t, 0)

	name, err := store.Save("photo.png", bytes.NewReader(pngBytes(64)))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !store.Delete(name) {
		t.Error("First delete should report removal")
	}
	if store.Delete(name) {
		t.Error("Second delete should be a no-op")
	}
	if store.Delete("never-existed.png") {
		t.Error("Deleting an unknown name should be a no-op")
	}
	if store.Delete("") {
		t.Error("Deleting the empty name should be a no-op")
	}
}

func TestDeleteIgnoresPathTraversal(t *testing.T) {
	base := t.TempDir()
	secret := filepath.Join(base, "secret.png")
	if err := os.WriteFile(secret, pngBytes(16), 0o644); err != nil {
		t.Fatalf("Failed to plant file: %v", err)
	}

	store, err := NewDiskStore(filepath.Join(base, "uploads"), 0, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create disk store: %v", err)
	}

	if store.Delete("../secret.png") {
		t.Error("Delete must not reach outside the store directory")
	}
	if _, err := os.Stat(secret); err != nil {
		t.Errorf("File outside the store was touched: %v", err)
	}
}
