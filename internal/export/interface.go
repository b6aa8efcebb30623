package export

import "context"

// UseCase writes a scored dataset to the output directory and, when object
// storage is configured, uploads it and returns a presigned download link.
type UseCase interface {
	Publish(ctx context.Context, input PublishInput) (Output, error)
}
