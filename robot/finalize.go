package robot

import (
	"context"
	"time"

	"github.com/AAK-MBU/MBU-Egenbefordring/model"
	"github.com/AAK-MBU/MBU-Egenbefordring/pkg/logger"
	"github.com/AAK-MBU/MBU-Egenbefordring/service"
)

// Finalize relocates the day's spreadsheet into the failed or processed
// folder and notifies the caseworker. The destination is threaded from the
// router to the mailer explicitly.
func (r *Robot) Finalize(ctx context.Context, args model.ProcessArgs) error {
	ctx = context.WithValue(ctx, logger.StageKey, "finalize")

	router := service.NewFolderRouter(r.store, r.queue, r.cfg.Queue.Name, r.cfg.WorkDir)
	destination, err := router.RouteAndUpload(ctx, time.Now())
	if err != nil {
		return err
	}
	logger.Info(ctx, "folders updated", "destination", destination)

	folderURL := r.store.FolderURL(destination)
	return r.mailer.SendRunNotification(ctx, args.NotificationEmail, folderURL, destination)
}
