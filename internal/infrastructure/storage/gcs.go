package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/firmhub/pkg/helpers"
)

// GCSStore keeps images in a Google Cloud Storage bucket.
type GCSStore struct {
	Client *gcs.Client
	Bucket string
}

func NewGCSStore(client *gcs.Client, bucket string) *GCSStore {
	return &GCSStore{Client: client, Bucket: bucket}
}

func (s *GCSStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.Client, s.Bucket, name, contentType, r)
}

func (s *GCSStore) Delete(ctx context.Context, name string) error {
	return helpers.DeleteObject(ctx, s.Client, s.Bucket, name)
}
