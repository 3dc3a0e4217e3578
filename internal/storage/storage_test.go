package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yatube/yatube/internal/apperr"
	"github.com/yatube/yatube/pkg/config"
)

func TestLocalSave(t *testing.T) {
	dir := t.TempDir()
	store, err := New(&config.StorageConfig{Backend: "local", LocalDir: dir, BaseURL: "/media/"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	handle, err := store.Save(context.Background(), "Cat.PNG", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasPrefix(handle, "posts/") || !strings.HasSuffix(handle, ".png") {
		t.Errorf("handle = %q, want posts/<id>.png", handle)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(handle)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored content = %q", data)
	}

	if got := store.URL(handle); got != "/media/"+handle {
		t.Errorf("URL() = %q, want /media/%s", got, handle)
	}
	if got := store.URL(""); got != "" {
		t.Errorf("URL(\"\") = %q, want empty", got)
	}
}

func TestLocalSaveRejectsType(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/media/")
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	_, err = store.Save(context.Background(), "notes.txt", strings.NewReader("x"))
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Save(.txt) error = %v, want validation error", err)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New(&config.StorageConfig{Backend: "ftp"}); err == nil {
		t.Error("New(ftp) should fail")
	}
}
