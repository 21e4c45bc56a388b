package service

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/AAK-MBU/MBU-Egenbefordring/config"
	"github.com/AAK-MBU/MBU-Egenbefordring/model"
	"github.com/AAK-MBU/MBU-Egenbefordring/pkg/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SharePointService is the document store client. The document library is
// one bucket; folders are object key prefixes.
type SharePointService struct {
	client *minio.Client
	bucket string
	config *config.SharePointConfig
}

func NewSharePointService(cfg *config.SharePointConfig) (*SharePointService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create document store client: %w", err)
	}

	return &SharePointService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// FetchFiles downloads every spreadsheet in the given folder to localDir
// and returns the name of the spreadsheet to process. ErrFileNotFound when
// the folder holds none.
func (s *SharePointService) FetchFiles(ctx context.Context, folder, localDir string) (string, error) {
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix: folder + "/",
	})

	filename := ""
	for object := range objects {
		if object.Err != nil {
			return "", fmt.Errorf("list folder %s: %w", folder, object.Err)
		}
		name := path.Base(object.Key)
		if !strings.HasSuffix(name, ".xlsx") {
			continue
		}
		local := filepath.Join(localDir, name)
		if err := s.client.FGetObject(ctx, s.bucket, object.Key, local, minio.GetObjectOptions{}); err != nil {
			return "", fmt.Errorf("download %s: %w", object.Key, err)
		}
		logger.Info(ctx, "downloaded spreadsheet", "name", name, "path", local)
		filename = name
	}

	if filename == "" {
		return "", fmt.Errorf("folder %s: %w", folder, model.ErrFileNotFound)
	}
	return filename, nil
}

// UploadFile uploads a local file into the given folder.
func (s *SharePointService) UploadFile(ctx context.Context, localPath, folder string) error {
	key := path.Join(folder, filepath.Base(localPath))
	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: xlsxContentType,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// UploadFolder uploads a local directory and its contents into the given
// folder, mirroring local subdirectories as nested remote folders.
func (s *SharePointService) UploadFolder(ctx context.Context, localDir, folder string) error {
	base := filepath.Base(localDir)
	return filepath.WalkDir(localDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", p, err)
		}
		key := path.Join(folder, base, filepath.ToSlash(rel))
		if _, err := s.client.FPutObject(ctx, s.bucket, key, p, minio.PutObjectOptions{}); err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		logger.Debug(ctx, "uploaded attachment", "key", key)
		return nil
	})
}

// DeleteFile removes a spreadsheet from the staging folder.
func (s *SharePointService) DeleteFile(ctx context.Context, name string) error {
	key := path.Join(s.config.SourceFolder, name)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// FolderURL returns the browser link to a destination folder, used in the
// notification mail.
func (s *SharePointService) FolderURL(destination string) string {
	base := strings.TrimRight(s.config.SiteURL, "/")
	return fmt.Sprintf("%s/teams/%s/%s/%s/%s",
		base, s.config.SiteName, s.bucket, s.config.SourceFolder, destination)
}
