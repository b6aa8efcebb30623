package usecase

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"anomaly-srv/internal/dataset"
	"anomaly-srv/internal/export"
	"anomaly-srv/pkg/minio"
)

func (uc *implUseCase) Publish(ctx context.Context, input export.PublishInput) (export.Output, error) {
	if input.FileName == "" {
		return export.Output{}, export.ErrFileNameRequired
	}
	if strings.ContainsAny(input.FileName, `/\`) {
		return export.Output{}, export.ErrInvalidFileName
	}

	var buf bytes.Buffer
	if err := dataset.WriteScored(&buf, input.Header, input.Records); err != nil {
		uc.l.Errorf(ctx, "internal.export.usecase.Publish.WriteScored: %v", err)
		return export.Output{}, err
	}

	path, err := uc.writeLocal(input.FileName, buf.Bytes())
	if err != nil {
		uc.l.Errorf(ctx, "internal.export.usecase.Publish.writeLocal: %v", err)
		return export.Output{}, err
	}
	out := export.Output{LocalPath: path, Bytes: buf.Len()}
	uc.l.Infof(ctx, "internal.export.usecase.Publish: wrote %d records to %s", len(input.Records), path)

	if uc.storage == nil || uc.cfg.Bucket == "" {
		return out, nil
	}

	// Upload problems never fail the run; the local file is the primary output.
	if err := uc.upload(ctx, input, buf.Bytes(), &out); err != nil {
		out.UploadErr = err
		uc.l.Warnf(ctx, "internal.export.usecase.Publish.upload: %v", err)
	}
	return out, nil
}

// writeLocal writes to a temp file in the target directory and renames it
// into place so readers never see a partial export.
func (uc *implUseCase) writeLocal(name string, data []byte) (string, error) {
	if err := os.MkdirAll(uc.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(uc.cfg.Dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", tmp.Name(), err)
	}

	path := filepath.Join(uc.cfg.Dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename into %s: %w", path, err)
	}
	return path, nil
}

func (uc *implUseCase) upload(ctx context.Context, input export.PublishInput, data []byte, out *export.Output) error {
	if err := uc.storage.EnsureBucket(ctx, uc.cfg.Bucket); err != nil {
		return fmt.Errorf("ensure bucket %s: %w", uc.cfg.Bucket, err)
	}

	object := minio.ObjectPath(input.RunID, input.FileName)
	info, err := uc.storage.UploadFile(ctx, &minio.UploadRequest{
		BucketName:  uc.cfg.Bucket,
		ObjectName:  object,
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: contentTypeCSV,
		Metadata:    map[string]string{"run-id": input.RunID},
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", object, err)
	}
	out.Uploaded = true
	out.Bucket = info.BucketName
	out.ObjectName = info.ObjectName

	link, err := uc.storage.GetPresignedDownloadURL(ctx, &minio.PresignedURLRequest{
		BucketName: uc.cfg.Bucket,
		ObjectName: object,
		Expiry:     uc.cfg.PresignExpiry,
	})
	if err != nil {
		return fmt.Errorf("presign %s: %w", object, err)
	}
	out.URL = link.URL
	out.ExpiresAt = link.ExpiresAt
	uc.l.Infof(ctx, "internal.export.usecase.Publish.upload: uploaded %s/%s, download link valid until %s",
		out.Bucket, out.ObjectName, out.ExpiresAt.Format("2006-01-02 15:04:05"))
	return nil
}
