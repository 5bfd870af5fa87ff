package application

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// ImageStore persists firm images and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
}

// JobPublisher enqueues background jobs such as notification emails.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
