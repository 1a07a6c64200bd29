package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"skillup_backend/internal/config"
	"skillup_backend/internal/util"
	"skillup_backend/pkg/logger"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 证书图片等生成物的对象存储
type StorageProvider interface {
	Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) error
	Exists(ctx context.Context, name string) (bool, error)
}

// LocalStorageProvider 本地存储实现
type LocalStorageProvider struct {
	Root string
}

func (p *LocalStorageProvider) path(name string) (string, error) {
	dst := filepath.Join(p.Root, filepath.FromSlash(name))
	rel, err := filepath.Rel(p.Root, dst)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("object name %q escapes storage root", name)
	}
	return dst, nil
}

func (p *LocalStorageProvider) Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) error {
	dst, err := p.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	// 先写临时文件再改名，读取方不会看到半个文件
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (p *LocalStorageProvider) Exists(ctx context.Context, name string) (bool, error) {
	dst, err := p.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(dst)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// MinioStorageProvider MinIO存储实现
type MinioStorageProvider struct {
	Bucket string
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) error {
	_, err := p.Client.PutObject(ctx, p.Bucket, name, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (p *MinioStorageProvider) Exists(ctx context.Context, name string) (bool, error) {
	_, err := p.Client.StatObject(ctx, p.Bucket, name, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, err
}

// OSSStorageProvider 阿里云OSS存储实现
type OSSStorageProvider struct {
	Bucket *oss.Bucket
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Bucket: bucket}, nil
}

func (p *OSSStorageProvider) Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) error {
	return p.Bucket.PutObject(name, reader, oss.ContentType(contentType), oss.WithContext(ctx))
}

func (p *OSSStorageProvider) Exists(ctx context.Context, name string) (bool, error) {
	return p.Bucket.IsObjectExist(name, oss.WithContext(ctx))
}

// StorageService 存储服务，目前用于证书二维码图片
type StorageService struct {
	Provider StorageProvider
	BaseURL  string
}

// publicBaseURL 按存储类型推导对外访问前缀
func publicBaseURL(cfg *config.StorageConfig, kind string) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	switch kind {
	case util.StorageMinio:
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		return fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	case util.StorageOSS:
		return fmt.Sprintf("https://%s.%s", cfg.OSSBucket, cfg.OSSEndpoint)
	default:
		return "/uploads"
	}
}

// NewStorageService 远端存储初始化失败时退回本地存储
func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	kind := cfg.Storage.Type
	switch kind {
	case util.StorageMinio:
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err != nil {
			logger.Log.Warn("minio unavailable, falling back to local storage", zap.Error(err))
			break
		}
		provider = p
	case util.StorageOSS:
		p, err := NewOSSStorageProvider(&cfg.Storage)
		if err != nil {
			logger.Log.Warn("oss unavailable, falling back to local storage", zap.Error(err))
			break
		}
		provider = p
	}

	if provider == nil {
		kind = util.StorageLocal
		provider = &LocalStorageProvider{Root: cfg.Storage.LocalPath}
	}

	return &StorageService{
		Provider: provider,
		BaseURL:  publicBaseURL(&cfg.Storage, kind),
	}
}

// UploadBytes 上传内存中的文件，返回访问地址
func (s *StorageService) UploadBytes(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := s.Provider.Upload(ctx, name, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	return s.GetURL(name), nil
}

func (s *StorageService) Exists(ctx context.Context, name string) (bool, error) {
	return s.Provider.Exists(ctx, name)
}

func (s *StorageService) GetURL(name string) string {
	return s.BaseURL + "/" + name
}
