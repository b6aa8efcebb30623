package minio

import (
	"strings"
	"time"
)

const (
	maxObjectSize  = 5 << 30
	maxPresignTime = 7 * 24 * time.Hour
)

func validateConfig(cfg *Config) error {
	if cfg.Endpoint == "" {
		return NewInvalidInputError("endpoint is required")
	}
	if cfg.AccessKey == "" {
		return NewInvalidInputError("access key is required")
	}
	if cfg.SecretKey == "" {
		return NewInvalidInputError("secret key is required")
	}
	if cfg.Bucket != "" {
		if err := validateBucketName(cfg.Bucket); err != nil {
			return err
		}
	}

	if !strings.Contains(cfg.Endpoint, ":") {
		cfg.Endpoint = cfg.Endpoint + ":9000"
	}
	return nil
}

func validateUploadRequest(req *UploadRequest) error {
	if req == nil {
		return NewInvalidInputError("upload request is required")
	}
	if err := validateBucketName(req.BucketName); err != nil {
		return err
	}
	if err := validateObjectName(req.ObjectName); err != nil {
		return err
	}
	if req.Reader == nil {
		return NewInvalidInputError("reader is required")
	}
	if req.Size < 0 {
		return NewInvalidInputError("size must not be negative")
	}
	if req.Size > maxObjectSize {
		return NewInvalidInputError("file size cannot exceed 5GB")
	}
	if req.ContentType == "" {
		return NewInvalidInputError("content type is required")
	}
	return nil
}

func validatePresignedURLRequest(req *PresignedURLRequest) error {
	if req == nil {
		return NewInvalidInputError("presign request is required")
	}
	if err := validateBucketName(req.BucketName); err != nil {
		return err
	}
	if err := validateObjectName(req.ObjectName); err != nil {
		return err
	}
	if req.Expiry <= 0 {
		return NewInvalidInputError("expiry must be positive")
	}
	if req.Expiry > maxPresignTime {
		return NewInvalidInputError("expiry cannot exceed 7 days")
	}
	return nil
}

// validateBucketName applies the S3 naming rules MinIO enforces.
func validateBucketName(bucketName string) error {
	if bucketName == "" {
		return NewInvalidInputError("bucket name is required")
	}
	if len(bucketName) < 3 {
		return NewInvalidInputError("bucket name must be at least 3 characters")
	}
	if len(bucketName) > 63 {
		return NewInvalidInputError("bucket name cannot exceed 63 characters")
	}
	for _, char := range bucketName {
		if !((char >= 'a' && char <= 'z') || (char >= '0' && char <= '9') || char == '-') {
			return NewInvalidInputError("bucket name can only contain lowercase letters, numbers, and hyphens")
		}
	}
	if strings.Contains(bucketName, "--") {
		return NewInvalidInputError("bucket name cannot contain consecutive hyphens")
	}
	if strings.HasPrefix(bucketName, "-") || strings.HasSuffix(bucketName, "-") {
		return NewInvalidInputError("bucket name cannot start or end with hyphen")
	}
	return nil
}

func validateObjectName(objectName string) error {
	if objectName == "" {
		return NewInvalidInputError("object name is required")
	}
	if strings.Contains(objectName, "\\") {
		return NewInvalidInputError("object name cannot contain backslashes")
	}
	if strings.HasPrefix(objectName, "/") || strings.HasSuffix(objectName, "/") {
		return NewInvalidInputError("object name cannot start or end with '/'")
	}
	return nil
}
