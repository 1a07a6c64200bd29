package service

import (
	"os"
	"path/filepath"
	"skillup_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	root := t.TempDir()
	s := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: root}})

	url, err := s.UploadBytes(ctxBG, "certificates/qr/ABC.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/certificates/qr/ABC.png", url)

	data, err := os.ReadFile(filepath.Join(root, "certificates", "qr", "ABC.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	ok, err := s.Exists(ctxBG, "certificates/qr/ABC.png")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctxBG, "certificates/qr/missing.png")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.UploadBytes(ctxBG, "../escape.png", []byte("x"), "image/png")
	assert.Error(t, err)
}

func TestPublicBaseURL(t *testing.T) {
	cfg := &config.StorageConfig{
		MinioEndpoint: "minio.local:9000",
		MinioBucket:   "skillup",
		OSSEndpoint:   "oss-cn-hangzhou.aliyuncs.com",
		OSSBucket:     "skillup",
	}
	assert.Equal(t, "http://minio.local:9000/skillup", publicBaseURL(cfg, "minio"))
	assert.Equal(t, "https://skillup.oss-cn-hangzhou.aliyuncs.com", publicBaseURL(cfg, "oss"))
	assert.Equal(t, "/uploads", publicBaseURL(cfg, "local"))

	cfg.PublicBaseURL = "https://cdn.skillup.app/"
	assert.Equal(t, "https://cdn.skillup.app", publicBaseURL(cfg, "minio"))
}
