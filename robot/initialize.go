package robot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AAK-MBU/MBU-Egenbefordring/model"
	"github.com/AAK-MBU/MBU-Egenbefordring/pkg/logger"
	"github.com/AAK-MBU/MBU-Egenbefordring/service"
)

// Initialize downloads the day's expense spreadsheet, transforms its rows
// and dispatches the approved records to the job queue.
func (r *Robot) Initialize(ctx context.Context, args model.ProcessArgs) error {
	ctx = context.WithValue(ctx, logger.StageKey, "initialize")

	if err := clearWorkDir(ctx, r.cfg.WorkDir); err != nil {
		return err
	}

	filename, err := r.store.FetchFiles(ctx, r.cfg.SharePoint.SourceFolder, r.cfg.WorkDir)
	if err != nil {
		return fmt.Errorf("fetch spreadsheets: %w", err)
	}

	rows, err := service.LoadRows(filepath.Join(r.cfg.WorkDir, filename))
	if err != nil {
		return err
	}
	logger.Info(ctx, "spreadsheet loaded", "name", filename, "rows", len(rows))

	transformer := service.NewTransformer(r.encryptor, r.cfg.Denylist, args.NaesteAgent, filename)
	records, denied, err := transformer.TransformAll(rows)
	if err != nil {
		return err
	}
	logger.Info(ctx, "rows transformed", "records", len(records), "denylisted", denied)

	dispatcher := service.NewDispatcher(r.queue, r.cfg.Queue.Name)
	dispatched, err := dispatcher.Dispatch(ctx, records)
	if err != nil {
		return err
	}

	logger.Info(ctx, "initialize complete", "dispatched", dispatched)
	return nil
}

// clearWorkDir empties the work directory, creating it if missing. Delete
// failures are logged and skipped so a stuck file cannot block the run
// before the download even starts.
func clearWorkDir(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create work dir %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read work dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		target := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(target); err != nil {
			logger.Warn(ctx, "failed to delete", "path", target, "error", err)
		}
	}
	return nil
}
