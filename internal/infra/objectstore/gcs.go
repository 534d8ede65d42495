package objectstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// GCSBucket uploads invoice documents to a Google Cloud Storage bucket and
// hands back their public URL plus the object name as storage id.
type GCSBucket struct {
	client *storage.Client
	bucket string
}

func NewGCSBucket(client *storage.Client, bucket string) *GCSBucket {
	return &GCSBucket{client: client, bucket: bucket}
}

func (b *GCSBucket) Upload(ctx context.Context, objectName string, pdf []byte) (string, string, error) {
	obj := b.client.Bucket(b.bucket).Object(objectName)
	w := obj.NewWriter(ctx)
	w.ContentType = "application/pdf"

	if _, err := w.Write(pdf); err != nil {
		_ = w.Close()
		return "", "", fmt.Errorf("write invoice object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", "", fmt.Errorf("close invoice object: %w", err)
	}

	return publicURL(b.bucket, objectName), objectName, nil
}

func publicURL(bucket, objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectName)
}
