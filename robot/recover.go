package robot

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/AAK-MBU/MBU-Egenbefordring/pkg/logger"
	"github.com/google/uuid"
)

// RunStage executes one robot stage under a fresh run ID with panic
// recovery, so a crashing collaborator surfaces as an error the
// orchestrator can retry instead of killing the worker silently.
func RunStage(ctx context.Context, name string, fn func(context.Context) error) (err error) {
	runID := uuid.New().String()
	ctx = context.WithValue(ctx, logger.RunIDKey, runID)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(ctx, "panic recovered",
				"stage", name,
				"error", rec,
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("stage %s panicked: %v", name, rec)
		}
	}()

	logger.Info(ctx, "stage starting", "stage", name)
	if err = fn(ctx); err != nil {
		logger.Error(ctx, "stage failed", "stage", name, "error", err)
		return err
	}
	logger.Info(ctx, "stage complete", "stage", name)
	return nil
}
