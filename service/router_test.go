package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AAK-MBU/MBU-Egenbefordring/model"
)

// fakeStore records uploads and deletions.
type fakeStore struct {
	uploadedFiles   map[string]string // local path -> folder
	uploadedFolders map[string]string
	deleted         []string
	deleteErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		uploadedFiles:   make(map[string]string),
		uploadedFolders: make(map[string]string),
	}
}

func (f *fakeStore) UploadFile(_ context.Context, localPath, folder string) error {
	f.uploadedFiles[localPath] = folder
	return nil
}

func (f *fakeStore) UploadFolder(_ context.Context, localDir, folder string) error {
	f.uploadedFolders[localDir] = folder
	return nil
}

func (f *fakeStore) DeleteFile(_ context.Context, name string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, name)
	return nil
}

// fakeElements returns a fixed set of failed elements.
type fakeElements struct {
	failed []model.QueueElement
	err    error
}

func (f *fakeElements) GetElements(_ context.Context, _ string, status model.QueueStatus, _, _ time.Time) ([]model.QueueElement, error) {
	if f.err != nil {
		return nil, f.err
	}
	if status == model.QueueStatusFailed {
		return f.failed, nil
	}
	return nil, nil
}

func routerFixture(t *testing.T, withAttachments bool) (string, *fakeStore) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "udbetaling.xlsx"), []byte("sheet"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	if withAttachments {
		attachDir := filepath.Join(dir, "udbetaling")
		if err := os.MkdirAll(attachDir, 0o755); err != nil {
			t.Fatalf("Failed to create attachment dir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(attachDir, "receipt.pdf"), []byte("pdf"), 0o644); err != nil {
			t.Fatalf("Failed to write attachment: %v", err)
		}
	}
	return dir, newFakeStore()
}

func TestRouteAndUploadProcessed(t *testing.T) {
	dir, store := routerFixture(t, false)
	r := NewFolderRouter(store, &fakeElements{}, "test.queue", dir)

	dest, err := r.RouteAndUpload(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dest != DestProcessed {
		t.Errorf("Expected destination %s, got %s", DestProcessed, dest)
	}
	if folder := store.uploadedFiles[filepath.Join(dir, "udbetaling.xlsx")]; folder != DestProcessed {
		t.Errorf("Expected spreadsheet in %s, got %s", DestProcessed, folder)
	}
	if len(store.uploadedFolders) != 0 {
		t.Error("Expected no attachment upload on success")
	}
	if len(store.deleted) != 1 || store.deleted[0] != "udbetaling.xlsx" {
		t.Errorf("Expected staged copy deleted, got %v", store.deleted)
	}
}

func TestRouteAndUploadFailed(t *testing.T) {
	dir, store := routerFixture(t, true)
	queue := &fakeElements{failed: []model.QueueElement{{ID: 1}}}
	r := NewFolderRouter(store, queue, "test.queue", dir)

	dest, err := r.RouteAndUpload(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dest != DestFailed {
		t.Errorf("Expected destination %s, got %s", DestFailed, dest)
	}
	if folder := store.uploadedFolders[filepath.Join(dir, "udbetaling")]; folder != DestFailed {
		t.Errorf("Expected attachments in %s, got %s", DestFailed, folder)
	}
}

func TestRouteAndUploadFailedWithoutAttachmentDir(t *testing.T) {
	dir, store := routerFixture(t, false)
	queue := &fakeElements{failed: []model.QueueElement{{ID: 1}}}
	r := NewFolderRouter(store, queue, "test.queue", dir)

	dest, err := r.RouteAndUpload(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dest != DestFailed {
		t.Errorf("Expected destination %s, got %s", DestFailed, dest)
	}
	if len(store.uploadedFolders) != 0 {
		t.Error("Expected no folder upload when attachment dir is missing")
	}
}

func TestRouteAndUploadDeleteFailureNonFatal(t *testing.T) {
	dir, store := routerFixture(t, false)
	store.deleteErr = errors.New("locked")
	r := NewFolderRouter(store, &fakeElements{}, "test.queue", dir)

	if _, err := r.RouteAndUpload(context.Background(), time.Now()); err != nil {
		t.Fatalf("Expected delete failure to be non-fatal, got %v", err)
	}
}

func TestRouteAndUploadNoSpreadsheets(t *testing.T) {
	dir := t.TempDir()
	r := NewFolderRouter(newFakeStore(), &fakeElements{}, "test.queue", dir)

	_, err := r.RouteAndUpload(context.Background(), time.Now())
	if !errors.Is(err, model.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestRouteAndUploadQueueError(t *testing.T) {
	dir, store := routerFixture(t, false)
	r := NewFolderRouter(store, &fakeElements{err: errors.New("db gone")}, "test.queue", dir)

	if _, err := r.RouteAndUpload(context.Background(), time.Now()); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestRouteAndUploadIgnoresOtherFiles(t *testing.T) {
	dir, store := routerFixture(t, false)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	r := NewFolderRouter(store, &fakeElements{}, "test.queue", dir)

	if _, err := r.RouteAndUpload(context.Background(), time.Now()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(store.uploadedFiles) != 1 {
		t.Errorf("Expected only the spreadsheet uploaded, got %v", store.uploadedFiles)
	}
}
