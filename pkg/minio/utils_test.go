package minio

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectPath(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{name: "plain", parts: []string{"runs", "abc", "file.csv"}, want: "runs/abc/file.csv"},
		{name: "slashes trimmed", parts: []string{"/runs/", "/abc", "file.csv/"}, want: "runs/abc/file.csv"},
		{name: "empty parts dropped", parts: []string{"", "runs", "/", "file.csv"}, want: "runs/file.csv"},
		{name: "nothing", parts: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectPath(tt.parts...))
		})
	}
}

func TestSanitizeMetadata(t *testing.T) {
	got := sanitizeMetadata(map[string]string{
		"Run ID": "r1",
		"empty":  "",
		"long":   strings.Repeat("x", 2000),
	})
	assert.Equal(t, "r1", got["run_id"])
	assert.NotContains(t, got, "empty")
	assert.Len(t, got["long"], maxMetadataValueLen)
	assert.NotNil(t, sanitizeMetadata(nil))
}

func TestValidateBucketName(t *testing.T) {
	valid := []string{"anomaly-exports", "abc", "a1-b2"}
	for _, name := range valid {
		assert.NoError(t, validateBucketName(name), name)
	}
	invalid := []string{"", "ab", "Upper", "a--b", "-abc", "abc-", "under_score", strings.Repeat("a", 64)}
	for _, name := range invalid {
		err := validateBucketName(name)
		require.Error(t, err, name)
		var se *StorageError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, ErrCodeInvalidInput, se.Code)
	}
}

func TestValidatePresignedURLRequest(t *testing.T) {
	ok := &PresignedURLRequest{BucketName: "exports", ObjectName: "runs/a.csv", Expiry: time.Hour}
	assert.NoError(t, validatePresignedURLRequest(ok))

	assert.Error(t, validatePresignedURLRequest(nil))
	assert.Error(t, validatePresignedURLRequest(&PresignedURLRequest{BucketName: "exports", ObjectName: "a.csv"}))
	assert.Error(t, validatePresignedURLRequest(&PresignedURLRequest{BucketName: "exports", ObjectName: "a.csv", Expiry: 8 * 24 * time.Hour}))
	assert.Error(t, validatePresignedURLRequest(&PresignedURLRequest{BucketName: "exports", ObjectName: "/a.csv", Expiry: time.Hour}))
}

func TestValidateConfigAddsDefaultPort(t *testing.T) {
	cfg := Config{Endpoint: "minio.local", AccessKey: "k", SecretKey: "s"}
	require.NoError(t, validateConfig(&cfg))
	assert.Equal(t, "minio.local:9000", cfg.Endpoint)

	assert.Error(t, validateConfig(&Config{Endpoint: "x:1", AccessKey: "k"}))
}
