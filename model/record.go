package model

// RawRow is one submission row read from the expense spreadsheet. Column
// names come from the OS2Forms export; every value is kept as the string
// the cell contained, empty when the cell is missing.
type RawRow struct {
	CPR            string // cpr_nr
	CPRSecondary   string // cpr_nr_paaanden
	ChildName      string // barnets_navn
	Amount         string // beloeb_i_alt
	AmendedAmount  string // aendret_beloeb_i_alt
	SchoolList     string // skoleliste
	SchoolFreeText string // skriv_dit_barns_skole_eller_dagtilbud
	UUID           string // uuid
	Approved       string // godkendt
	ApprovedBy     string // godkendt_af
	Comment        string // evt_kommentar
	Attachments    string // attachments
	DateEntries    string // test (serialized list of {"dato": "YYYY-MM-DD"})
}

// QueueRecord is the payload dispatched to the job queue for one approved
// row. The json keys are the contract with the downstream ticket flow and
// must not change.
type QueueRecord struct {
	Filename       string `json:"filename"`
	CPREncrypted   string `json:"cpr_encrypted"`
	ChildName      string `json:"barnets_navn"`
	Amount         string `json:"beloeb"`
	Reference      string `json:"reference"`
	ArtsKonto      string `json:"arts_konto"`
	PSP            string `json:"psp"`
	PosteringTekst string `json:"posteringstekst"`
	NaesteAgent    string `json:"naeste_agent"`
	Attachment     string `json:"attachment,omitempty"`
	UUID           string `json:"uuid"`
	GodkendtAf     string `json:"godkendt_af"`
	School         string `json:"skole"`
	IsGodkendt     bool   `json:"is_godkendt"`
	Comment        string `json:"evt_kommentar,omitempty"`
}

// ProcessArgs are the per-run arguments supplied by the orchestrator.
type ProcessArgs struct {
	NaesteAgent       string `json:"naeste_agent"`
	NotificationEmail string `json:"notification_email"`
}

// ArtsKonto is the cost account all reimbursements post against.
const ArtsKonto = "40430002"

// QueueStatus is the lifecycle state of a queue element.
type QueueStatus string

const (
	QueueStatusNew        QueueStatus = "NEW"
	QueueStatusInProgress QueueStatus = "IN_PROGRESS"
	QueueStatusDone       QueueStatus = "DONE"
	QueueStatusFailed     QueueStatus = "FAILED"
)

// FormStatus is the journalizing status recorded in the relational store.
type FormStatus string

const (
	FormStatusInProgress FormStatus = "InProgress"
	FormStatusSuccessful FormStatus = "Successful"
	FormStatusFailed     FormStatus = "Failed"
	FormStatusManual     FormStatus = "Manual"
)

// QueueElement is one unit of work persisted by the job queue.
type QueueElement struct {
	ID        int64
	QueueName string
	Reference string
	Data      string
	Status    QueueStatus
	CreatedAt string
}
