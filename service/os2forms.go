package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AAK-MBU/MBU-Egenbefordring/config"
	"github.com/AAK-MBU/MBU-Egenbefordring/pkg/logger"
)

// OS2FormsService fetches submission receipts from the OS2Forms API.
type OS2FormsService struct {
	config     *config.OS2FormsConfig
	httpClient *http.Client
}

func NewOS2FormsService(cfg *config.OS2FormsConfig) *OS2FormsService {
	return &OS2FormsService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// FetchReceipt downloads the receipt PDF for a form submission and stores
// it in the spreadsheet's attachment folder. Returns the folder path.
func (s *OS2FormsService) FetchReceipt(ctx context.Context, formID, workDir, sheetName string) (string, error) {
	folder := filepath.Join(workDir, strings.TrimSuffix(sheetName, filepath.Ext(sheetName)))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("create attachment folder: %w", err)
	}

	url := fmt.Sprintf("%s/forms/%s/receipt", strings.TrimRight(s.config.APIURL, "/"), formID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create receipt request: %w", err)
	}
	req.Header.Set("api-key", s.config.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch receipt for %s: %w", formID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch receipt for %s: unexpected status %d", formID, resp.StatusCode)
	}

	receiptPath := filepath.Join(folder, ReceiptFilename(formID))
	out, err := os.Create(receiptPath)
	if err != nil {
		return "", fmt.Errorf("create receipt file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("write receipt file: %w", err)
	}

	logger.Info(ctx, "receipt downloaded", "form_id", formID, "path", receiptPath)
	return folder, nil
}

// ReceiptFilename is the on-disk name of a submission receipt.
func ReceiptFilename(formID string) string {
	return fmt.Sprintf("receipt_%s.pdf", formID)
}
