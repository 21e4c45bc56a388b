package robot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AAK-MBU/MBU-Egenbefordring/model"
	"github.com/AAK-MBU/MBU-Egenbefordring/pkg/logger"
	"github.com/AAK-MBU/MBU-Egenbefordring/service"
)

// Process handles one queue element end to end: mark it in progress,
// fetch the submission receipt, file the outlay ticket and record the
// outcome in both the spreadsheet and the journalizing store.
func (r *Robot) Process(ctx context.Context, elementID int64) error {
	ctx = context.WithValue(ctx, logger.StageKey, "process")
	ctx = context.WithValue(ctx, logger.ElementIDKey, strconv.FormatInt(elementID, 10))

	element, err := r.queue.GetByID(ctx, elementID)
	if err != nil {
		return err
	}

	var record model.QueueRecord
	if err := json.Unmarshal([]byte(element.Data), &record); err != nil {
		return fmt.Errorf("decode element %d: %w", element.ID, err)
	}

	if err := r.queue.SetStatus(ctx, element.ID, model.QueueStatusInProgress); err != nil {
		return err
	}
	if err := r.statusStore.UpdateStatus(ctx, model.FormStatusInProgress, record.UUID); err != nil {
		return err
	}
	logger.Info(ctx, "processing queue element", "form_id", record.UUID, "reference", element.Reference)

	attachmentDir, err := r.receipts.FetchReceipt(ctx, record.UUID, r.cfg.WorkDir, record.Filename)
	if err != nil {
		return r.failElement(ctx, element.ID, &record, err)
	}

	if err := r.tickets.FileTicket(ctx, &record, attachmentDir); err != nil {
		return r.failElement(ctx, element.ID, &record, err)
	}

	removeReceiptIfExists(ctx, attachmentDir, record.UUID)

	if err := r.writer.RecordOutcome(record.UUID, record.Filename, false); err != nil {
		return r.failElement(ctx, element.ID, &record, err)
	}
	if err := r.statusStore.UpdateStatus(ctx, model.FormStatusSuccessful, record.UUID); err != nil {
		return err
	}
	if err := r.queue.SetStatus(ctx, element.ID, model.QueueStatusDone); err != nil {
		return err
	}

	logger.Info(ctx, "element processed", "form_id", record.UUID)
	return nil
}

// failElement records the failure in the spreadsheet, the journalizing
// store and the queue, best-effort, and hands the original error back to
// the orchestrator for its retry policy.
func (r *Robot) failElement(ctx context.Context, elementID int64, record *model.QueueRecord, cause error) error {
	if err := r.writer.RecordOutcome(record.UUID, record.Filename, true); err != nil {
		logger.Warn(ctx, "failed to mark spreadsheet row", "form_id", record.UUID, "error", err)
	}
	if err := r.statusStore.UpdateStatus(ctx, model.FormStatusFailed, record.UUID); err != nil {
		logger.Warn(ctx, "failed to update journalizing status", "form_id", record.UUID, "error", err)
	}
	if err := r.queue.SetStatus(ctx, elementID, model.QueueStatusFailed); err != nil {
		logger.Warn(ctx, "failed to set queue status", "element_id", elementID, "error", err)
	}
	return cause
}

// removeReceiptIfExists deletes the receipt once the ticket is filed so it
// is not uploaded with the failed attachments later.
func removeReceiptIfExists(ctx context.Context, attachmentDir, formID string) {
	receiptPath := filepath.Join(attachmentDir, service.ReceiptFilename(formID))
	if _, err := os.Stat(receiptPath); err != nil {
		return
	}
	logger.Info(ctx, "removing receipt", "path", receiptPath)
	if err := os.Remove(receiptPath); err != nil {
		logger.Warn(ctx, "failed to remove receipt", "path", receiptPath, "error", err)
	}
}
