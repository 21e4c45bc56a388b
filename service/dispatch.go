package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AAK-MBU/MBU-Egenbefordring/model"
	"github.com/AAK-MBU/MBU-Egenbefordring/pkg/logger"
	"github.com/google/uuid"
)

// BulkCreator ingests a batch of queue elements at most once.
type BulkCreator interface {
	BulkCreate(ctx context.Context, queueName string, references, payloads []string) error
}

// Dispatcher submits approved records to the job queue.
type Dispatcher struct {
	queue     BulkCreator
	queueName string
}

func NewDispatcher(queue BulkCreator, queueName string) *Dispatcher {
	return &Dispatcher{queue: queue, queueName: queueName}
}

// Dispatch filters the batch to approved records and submits them as one
// bulk operation, each under a collision-resistant reference. A uniqueness
// violation from the queue is batch-level: it is logged and swallowed, and
// the orchestrator's retry policy picks the run up again. Returns the
// number of submitted elements.
func (d *Dispatcher) Dispatch(ctx context.Context, records []model.QueueRecord) (int, error) {
	references := make([]string, 0, len(records))
	payloads := make([]string, 0, len(records))

	for _, record := range records {
		if !record.IsGodkendt {
			continue
		}
		data, err := json.Marshal(record)
		if err != nil {
			return 0, fmt.Errorf("marshal record %s: %w", record.UUID, err)
		}
		references = append(references, UniqueReference(record.PosteringTekst))
		payloads = append(payloads, string(data))
	}

	if len(references) == 0 {
		logger.Info(ctx, "no approved records to dispatch")
		return 0, nil
	}

	if err := d.queue.BulkCreate(ctx, d.queueName, references, payloads); err != nil {
		if errors.Is(err, model.ErrDuplicateReference) {
			logger.Error(ctx, "queue rejected batch", "queue", d.queueName, "error", err)
			return 0, nil
		}
		return 0, fmt.Errorf("upload to queue: %w", err)
	}

	logger.Info(ctx, "data uploaded to queue", "queue", d.queueName, "count", len(references))
	return len(references), nil
}

// UniqueReference appends a random hex suffix so identical posting texts
// stay distinguishable in the queue.
func UniqueReference(postingText string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%x", postingText, id[:])
}
