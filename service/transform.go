package service

import (
	"fmt"
	"strings"

	"github.com/AAK-MBU/MBU-Egenbefordring/model"
)

// Encryptor encrypts a personal identifier before it leaves the robot.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
}

// Transformer maps spreadsheet rows into queue records for one run.
type Transformer struct {
	encryptor Encryptor
	denylist  map[string]struct{}
	nextAgent string
	filename  string
}

func NewTransformer(encryptor Encryptor, denylist []string, nextAgent, filename string) *Transformer {
	deny := make(map[string]struct{}, len(denylist))
	for _, id := range denylist {
		deny[id] = struct{}{}
	}
	return &Transformer{
		encryptor: encryptor,
		denylist:  deny,
		nextAgent: nextAgent,
		filename:  filename,
	}
}

// Transform builds the queue record for one row. Rows whose uuid is on the
// deny-list return (nil, nil) and are dropped from the batch. A failed
// reference derivation propagates; missing optional fields do not.
func (t *Transformer) Transform(row model.RawRow) (*model.QueueRecord, error) {
	reference, err := DeriveReference(row.DateEntries)
	if err != nil {
		return nil, err
	}

	// Prefer the secondary person's cpr when the form carries one.
	cpr := row.CPR
	if row.CPRSecondary != "" {
		cpr = row.CPRSecondary
	}
	encrypted, err := t.encryptor.Encrypt(cpr)
	if err != nil {
		return nil, fmt.Errorf("encrypt cpr: %w", err)
	}

	amount := row.Amount
	if row.AmendedAmount != "" {
		amount = row.AmendedAmount
	}

	school := row.SchoolFreeText
	if school == "" {
		school = row.SchoolList
	}

	record := &model.QueueRecord{
		Filename:       t.filename,
		CPREncrypted:   encrypted,
		ChildName:      row.ChildName,
		Amount:         NormalizeAmount(amount),
		Reference:      reference,
		ArtsKonto:      model.ArtsKonto,
		PSP:            ResolvePSP(strings.ToLower(row.SchoolList), row.SchoolFreeText != ""),
		PosteringTekst: "Egenbefordring " + reference,
		NaesteAgent:    t.nextAgent,
		Attachment:     ExtractAttachmentURL(row.Attachments),
		UUID:           row.UUID,
		GodkendtAf:     row.ApprovedBy,
		School:         school,
		IsGodkendt:     strings.Contains(strings.ToLower(row.Approved), "x"),
		Comment:        row.Comment,
	}

	if _, denied := t.denylist[record.UUID]; denied {
		return nil, nil
	}
	return record, nil
}

// TransformAll transforms every row and reports how many were dropped by
// the deny-list. The first parse failure aborts the whole batch.
func (t *Transformer) TransformAll(rows []model.RawRow) ([]model.QueueRecord, int, error) {
	records := make([]model.QueueRecord, 0, len(rows))
	dropped := 0
	for i, row := range rows {
		record, err := t.Transform(row)
		if err != nil {
			// Sheet rows are 1-based with a header row on top.
			return nil, 0, fmt.Errorf("row %d: %w", i+2, err)
		}
		if record == nil {
			dropped++
			continue
		}
		records = append(records, *record)
	}
	return records, dropped, nil
}

// ExtractAttachmentURL returns the first https URL in the attachments cell.
// The cell holds a serialized structure, so the URL runs from the scheme
// marker to the first following quote character. Empty when either marker
// is missing.
func ExtractAttachmentURL(attachments string) string {
	start := strings.Index(attachments, "https://")
	if start == -1 {
		return ""
	}
	rest := attachments[start:]
	end := strings.IndexAny(rest, `'"`)
	if end == -1 {
		return ""
	}
	return rest[:end]
}
