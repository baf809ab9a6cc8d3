package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BlobStorage описывает объектное хранилище фотографий.
type BlobStorage interface {
	// Put сохраняет объект и возвращает его ключ.
	Put(ctx context.Context, namespace, filename, contentType string, data []byte) (string, error)
	// PresignedURL возвращает временную ссылку на чтение объекта.
	PresignedURL(ctx context.Context, key string) (string, error)
	// Delete удаляет объект.
	Delete(ctx context.Context, key string) error
}

// S3Storage реализует BlobStorage поверх S3-совместимого API.
type S3Storage struct {
	client *minio.Client
	bucket string
	urlTTL time.Duration
}

// S3Config параметры подключения к хранилищу.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	URLTTL    time.Duration
}

// NewS3Storage создаёт клиент хранилища и убеждается, что bucket существует.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось создать клиент: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось проверить bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("storage: не удалось создать bucket: %w", err)
		}
	}

	return &S3Storage{
		client: client,
		bucket: cfg.Bucket,
		urlTTL: cfg.URLTTL,
	}, nil
}

// Put сохраняет объект под ключом вида namespace/uuid.ext.
// Оригинальное имя файла в ключ не попадает.
func (s *S3Storage) Put(ctx context.Context, namespace, filename, contentType string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("%s/%s%s", namespace, uuid.NewString(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage: не удалось сохранить объект: %w", err)
	}

	return key, nil
}

// PresignedURL выдаёт временную ссылку на объект. Ссылка генерируется на
// каждый запрос чтения, постоянные URL наружу не отдаются.
func (s *S3Storage) PresignedURL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.urlTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("storage: не удалось сгенерировать ссылку: %w", err)
	}
	return u.String(), nil
}

// Delete удаляет объект из хранилища.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage: не удалось удалить объект: %w", err)
	}
	return nil
}
