package files

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"realm/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "uploads"), filepath.Join(dir, "contents"), logging.NewWithWriter(io.Discard, "error"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestSaveUploadVerbatim(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	path, err := store.SaveUpload("report.pdf", []byte{0x25, 0x50, 0x44, 0x46})
	if err != nil {
		t.Fatalf("save upload: %v", err)
	}
	if path != store.UploadPath("report.pdf") {
		t.Fatalf("path mismatch: %s vs %s", path, store.UploadPath("report.pdf"))
	}
}

func TestSaveUploadStripsDirectoryComponents(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	path, err := store.SaveUpload("../../etc/passwd", []byte("x"))
	if err != nil {
		t.Fatalf("save upload: %v", err)
	}
	if filepath.Base(path) != "passwd" || filepath.Dir(path) != store.uploadsDir {
		t.Fatalf("upload escaped uploads dir: %s", path)
	}
}

func TestDownloadableRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if _, err := store.CreateDownloadable("sample report", "sample.txt"); err != nil {
		t.Fatalf("create downloadable: %v", err)
	}

	names, err := store.ListContents()
	if err != nil {
		t.Fatalf("list contents: %v", err)
	}
	if len(names) != 1 || names[0] != "sample.txt" {
		t.Fatalf("unexpected contents listing: %v", names)
	}

	data, err := store.ReadContent("sample.txt")
	if err != nil {
		t.Fatalf("read content: %v", err)
	}
	if string(data) != "sample report" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestListContentsEmpty(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	names, err := store.ListContents()
	if err != nil {
		t.Fatalf("list contents: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty listing, got %v", names)
	}
}

func TestListContentsMissingDirectory(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := os.RemoveAll(store.contentsDir); err != nil {
		t.Fatalf("remove contents dir: %v", err)
	}

	names, err := store.ListContents()
	if err != nil {
		t.Fatalf("expected no error for missing directory, got %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty listing, got %v", names)
	}
}
