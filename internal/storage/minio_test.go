package storage

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"lawdocs/internal/config"
)

func TestNewMinIOConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
	}{
		{name: "missing endpoint", cfg: config.MinIOConfig{AccessKey: "a", SecretKey: "s", Bucket: "b"}},
		{name: "missing credentials", cfg: config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}},
		{name: "missing bucket", cfg: config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, s)
		})
	}
}

func TestTranslateErr(t *testing.T) {
	t.Run("missing key maps to ErrNotFound", func(t *testing.T) {
		err := minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
		assert.ErrorIs(t, translateErr(err), ErrNotFound)
	})

	t.Run("other backend errors pass through", func(t *testing.T) {
		err := minio.ErrorResponse{Code: "AccessDenied"}
		assert.NotErrorIs(t, translateErr(err), ErrNotFound)

		plain := errors.New("connection refused")
		assert.Equal(t, plain, translateErr(plain))
	})
}
