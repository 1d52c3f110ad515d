package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"lostfound/internal/config"
)

// Storage is the image store. The rest of the service only keeps the returned URLs.
type Storage interface {
	UploadImage(ctx context.Context, folder, fileName string, file io.Reader, size int64, contentType string) (string, string, error)
	DeleteImage(ctx context.Context, objectName string) error
	ObjectNameFromURL(url string) (string, bool)
}

type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	m := &MinIOClient{
		client:    client,
		bucket:    cfg.MinIO.BucketName,
		publicURL: strings.TrimSuffix(cfg.MinIO.PublicURL, "/"),
		now:       time.Now,
	}

	if err := m.ensureBucket(context.Background(), cfg.MinIO.Region); err != nil {
		return nil, err
	}

	log.Info("minio client initialized", "endpoint", cfg.MinIO.Endpoint, "bucket", m.bucket)
	return m, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context, region string) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", m.bucket, err)
	}

	log.Info("created bucket", "bucket", m.bucket)
	return nil
}

// UploadImage stores the file under folder/yyyy/mm/<uuid><ext> and returns the
// object name and its public URL.
func (m *MinIOClient) UploadImage(ctx context.Context, folder, fileName string, file io.Reader, size int64, contentType string) (string, string, error) {
	now := m.now()
	objectName := ObjectName(folder, fileName, now)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.UTC().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("upload to minio: %w", err)
	}

	return objectName, m.publicURL + "/" + m.bucket + "/" + objectName, nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{
		GovernanceBypass: true,
	})
	if err != nil {
		return fmt.Errorf("delete from minio: %w", err)
	}
	return nil
}

// ObjectNameFromURL reverses the URL returned by UploadImage. URLs that point
// elsewhere are not ours to delete.
func (m *MinIOClient) ObjectNameFromURL(url string) (string, bool) {
	objectName, ok := strings.CutPrefix(url, m.publicURL+"/"+m.bucket+"/")
	if !ok || objectName == "" {
		return "", false
	}
	return objectName, true
}

func ObjectName(folder, fileName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}

	return fmt.Sprintf("%s/%d/%02d/%s%s",
		strings.Trim(folder, "/"),
		now.Year(),
		now.Month(),
		uuid.New().String(),
		ext)
}
