package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AAK-MBU/MBU-Egenbefordring/config"
	"github.com/AAK-MBU/MBU-Egenbefordring/model"
	"github.com/AAK-MBU/MBU-Egenbefordring/pkg/logger"
)

// TicketFiler files one reimbursement as an outlay ticket in the
// accounting system. The flow itself runs in an external automation
// worker; the robot only hands the record over and awaits the outcome.
type TicketFiler interface {
	FileTicket(ctx context.Context, record *model.QueueRecord, attachmentDir string) error
}

// OpusService hands records to the outlay automation runner over HTTP.
type OpusService struct {
	config     *config.OpusConfig
	httpClient *http.Client
}

func NewOpusService(cfg *config.OpusConfig) *OpusService {
	return &OpusService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

type opusTicketRequest struct {
	Record        *model.QueueRecord `json:"record"`
	AttachmentDir string             `json:"attachment_dir,omitempty"`
}

type opusTicketResponse struct {
	State    string `json:"state"` // done, failed
	ErrorMsg string `json:"err_msg,omitempty"`
}

// FileTicket submits the record and blocks until the runner reports a
// terminal state.
func (s *OpusService) FileTicket(ctx context.Context, record *model.QueueRecord, attachmentDir string) error {
	body, err := json.Marshal(opusTicketRequest{Record: record, AttachmentDir: attachmentDir})
	if err != nil {
		return fmt.Errorf("marshal ticket request: %w", err)
	}

	url := strings.TrimRight(s.config.RunnerURL, "/") + "/tickets"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create ticket request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("file ticket for %s: %w", record.UUID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("file ticket for %s: unexpected status %d", record.UUID, resp.StatusCode)
	}

	var result opusTicketResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode ticket response: %w", err)
	}
	if result.State != "done" {
		return fmt.Errorf("ticket for %s ended in state %s: %s", record.UUID, result.State, result.ErrorMsg)
	}

	logger.Info(ctx, "outlay ticket filed", "form_id", record.UUID, "reference", record.Reference)
	return nil
}
