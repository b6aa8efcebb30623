package minio

import (
	"io"
	"time"
)

// Config holds connection settings for an S3-compatible endpoint.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	Bucket    string
}

// FileInfo describes an uploaded object.
type FileInfo struct {
	BucketName   string
	ObjectName   string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
	Metadata     map[string]string
}

// UploadRequest contains the parameters for uploading a file to MinIO.
type UploadRequest struct {
	BucketName  string
	ObjectName  string
	Reader      io.Reader
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// PresignedURLRequest contains the parameters for generating a presigned URL.
type PresignedURLRequest struct {
	BucketName string
	ObjectName string
	Expiry     time.Duration
}

type PresignedURLResponse struct {
	URL       string
	ExpiresAt time.Time
}
