package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AAK-MBU/MBU-Egenbefordring/model"
	"github.com/AAK-MBU/MBU-Egenbefordring/pkg/logger"
)

// Destination folders for the day's spreadsheet.
const (
	DestFailed    = "Fejlet"
	DestProcessed = "Behandlet"
)

// DocumentStore is the slice of the document store the router needs.
type DocumentStore interface {
	UploadFile(ctx context.Context, localPath, folder string) error
	UploadFolder(ctx context.Context, localDir, folder string) error
	DeleteFile(ctx context.Context, name string) error
}

// ElementQuerier looks up queue elements by status and creation window.
type ElementQuerier interface {
	GetElements(ctx context.Context, queueName string, status model.QueueStatus, from, to time.Time) ([]model.QueueElement, error)
}

// FolderRouter relocates the day's spreadsheets after queue processing.
type FolderRouter struct {
	store     DocumentStore
	queue     ElementQuerier
	queueName string
	workDir   string
}

func NewFolderRouter(store DocumentStore, queue ElementQuerier, queueName, workDir string) *FolderRouter {
	return &FolderRouter{
		store:     store,
		queue:     queue,
		queueName: queueName,
		workDir:   workDir,
	}
}

// RouteAndUpload decides per spreadsheet whether it belongs in the failed
// or processed folder, uploads it (plus the attachment folder on failure)
// and removes the staging copy best-effort. The returned destination is
// the one used for the last spreadsheet; a run normally holds exactly one.
func (r *FolderRouter) RouteAndUpload(ctx context.Context, today time.Time) (string, error) {
	entries, err := os.ReadDir(r.workDir)
	if err != nil {
		return "", fmt.Errorf("read work dir %s: %w", r.workDir, err)
	}

	from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	to := from.Add(24 * time.Hour)

	destination := ""
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xls") {
			continue
		}

		failed, err := r.queue.GetElements(ctx, r.queueName, model.QueueStatusFailed, from, to)
		if err != nil {
			return "", fmt.Errorf("query failed elements: %w", err)
		}

		destination = DestProcessed
		if len(failed) > 0 {
			destination = DestFailed
		}
		logger.Info(ctx, "routing spreadsheet", "name", name, "destination", destination, "failed_elements", len(failed))

		if err := r.store.UploadFile(ctx, filepath.Join(r.workDir, name), destination); err != nil {
			return "", err
		}

		if destination == DestFailed {
			attachmentDir := filepath.Join(r.workDir, strings.TrimSuffix(name, filepath.Ext(name)))
			if _, err := os.Stat(attachmentDir); err == nil {
				if err := r.store.UploadFolder(ctx, attachmentDir, destination); err != nil {
					return "", err
				}
			}
		}

		if err := r.store.DeleteFile(ctx, name); err != nil {
			logger.Warn(ctx, "failed to delete staged spreadsheet", "name", name, "error", err)
		}
	}

	if destination == "" {
		return "", fmt.Errorf("no spreadsheets in %s: %w", r.workDir, model.ErrFileNotFound)
	}
	return destination, nil
}
