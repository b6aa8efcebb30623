package export

import (
	"time"

	"anomaly-srv/internal/model"
)

// File names per detection mode.
const (
	FileBatch = "dataset_with_anomalies.csv"
	FileLogin = "login_anomalies.csv"
)

type PublishInput struct {
	RunID    string
	FileName string
	Header   []string
	Records  []model.ScoredRecord
}

// Output describes where the export ended up. Uploaded is false when object
// storage is disabled or the upload failed; UploadErr holds the failure.
type Output struct {
	LocalPath  string
	Bytes      int
	Uploaded   bool
	Bucket     string
	ObjectName string
	URL        string
	ExpiresAt  time.Time
	UploadErr  error
}

// FileName returns the export file name for mode.
func FileName(mode string) string {
	if mode == model.ModeLogin {
		return FileLogin
	}
	return FileBatch
}
