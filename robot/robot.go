package robot

import (
	"fmt"

	"github.com/AAK-MBU/MBU-Egenbefordring/config"
	"github.com/AAK-MBU/MBU-Egenbefordring/service"
)

// Robot wires the collaborators the three stages share. Retry, scheduling
// and credentials are the orchestrator's job; the robot runs one stage per
// invocation, single-threaded.
type Robot struct {
	cfg         *config.Config
	store       *service.SharePointService
	queue       *service.Queue
	statusStore *service.StatusStore
	encryptor   service.Encryptor
	receipts    *service.OS2FormsService
	tickets     service.TicketFiler
	writer      *service.StatusWriter
	mailer      *service.Mailer
}

func New(cfg *config.Config) (*Robot, error) {
	store, err := service.NewSharePointService(&cfg.SharePoint)
	if err != nil {
		return nil, err
	}

	queue, err := service.NewQueue(cfg.Queue.DSN)
	if err != nil {
		return nil, err
	}

	statusStore, err := service.NewStatusStore(cfg.StatusStore.DSN, cfg.StatusStore.Procedure)
	if err != nil {
		queue.Close()
		return nil, err
	}

	encryptor, err := service.NewFernetEncryptor(cfg.Encryption.FernetKey)
	if err != nil {
		queue.Close()
		statusStore.Close()
		return nil, fmt.Errorf("init encryptor: %w", err)
	}

	return &Robot{
		cfg:         cfg,
		store:       store,
		queue:       queue,
		statusStore: statusStore,
		encryptor:   encryptor,
		receipts:    service.NewOS2FormsService(&cfg.OS2Forms),
		tickets:     service.NewOpusService(&cfg.Opus),
		writer:      service.NewStatusWriter(cfg.WorkDir),
		mailer:      service.NewMailer(&cfg.SMTP),
	}, nil
}

func (r *Robot) Close() {
	r.queue.Close()
	r.statusStore.Close()
}
