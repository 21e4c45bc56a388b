package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SharePoint  SharePointConfig  `yaml:"sharepoint"`
	Queue       QueueConfig       `yaml:"queue"`
	StatusStore StatusStoreConfig `yaml:"status_store"`
	OS2Forms    OS2FormsConfig    `yaml:"os2forms"`
	Opus        OpusConfig        `yaml:"opus"`
	SMTP        SMTPConfig        `yaml:"smtp"`
	Encryption  EncryptionConfig  `yaml:"encryption"`
	Log         LogConfig         `yaml:"log"`
	WorkDir     string            `yaml:"work_dir"`
	Denylist    []string          `yaml:"denylist"`
}

// SharePointConfig holds the document store connection settings. The
// document library is one bucket; folders are object key prefixes.
type SharePointConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	// SiteURL and SiteName are only used to build the folder link in the
	// notification mail.
	SiteURL      string `yaml:"site_url"`
	SiteName     string `yaml:"site_name"`
	SourceFolder string `yaml:"source_folder"`
}

type QueueConfig struct {
	DSN  string `yaml:"dsn"`
	Name string `yaml:"name"`
}

type StatusStoreConfig struct {
	DSN       string `yaml:"dsn"`
	Procedure string `yaml:"procedure"`
}

type OS2FormsConfig struct {
	APIURL string `yaml:"api_url"`
	APIKey string `yaml:"api_key"`
}

type OpusConfig struct {
	RunnerURL string `yaml:"runner_url"`
	Timeout   int    `yaml:"timeout_seconds"`
}

type SMTPConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Sender string `yaml:"sender"`
}

type EncryptionConfig struct {
	FernetKey string `yaml:"fernet_key"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultDenylist contains the form ids of submissions that must never be
// dispatched. These were paid out manually before the robot went live, so
// re-dispatching them would double-pay.
var DefaultDenylist = []string{
	"8a92a866-6841-4237-a3a2-0287af0cc4ad",
	"0d313e6c-4687-47af-a577-053158de53c5",
	"9be4b2c3-e7e3-4888-9bf0-47f9b37650e0",
	"5416e4dd-bdee-4b58-a93a-6ee36f9a35d8",
	"42091f88-444c-4d18-9dd4-3a5a3a7c271f",
	"9d18fd36-683d-4c76-a9ef-ae8051af54fa",
	"8578ee81-148f-4ba3-bbce-bc05a88264c8",
	"b9379949-1d6e-4bd3-8b32-88fa766be227",
	"f7f09cf4-1240-4351-8fa3-75b80f5f03fb",
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.WorkDir == "" {
		cfg.WorkDir = "/tmp/koerselsgodtgoerelse"
	}
	if cfg.SharePoint.SiteURL == "" {
		cfg.SharePoint.SiteURL = "https://aarhuskommune.sharepoint.com/"
	}
	if cfg.SharePoint.SiteName == "" {
		cfg.SharePoint.SiteName = "MBU-RPA-Egenbefordring"
	}
	if cfg.SharePoint.Bucket == "" {
		cfg.SharePoint.Bucket = "delte-dokumenter"
	}
	if cfg.SharePoint.SourceFolder == "" {
		cfg.SharePoint.SourceFolder = "General/Til udbetaling"
	}
	if cfg.Queue.Name == "" {
		cfg.Queue.Name = "bur.egenbefordring.main"
	}
	if cfg.StatusStore.Procedure == "" {
		cfg.StatusStore.Procedure = "journalizing.sp_update_status"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 25
	}
	if cfg.Opus.Timeout == 0 {
		cfg.Opus.Timeout = 300
	}
	if cfg.Denylist == nil {
		cfg.Denylist = DefaultDenylist
	}

	return &cfg, nil
}
