package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"social-app/content-service/internal/models"
)

// MinioBlobStore keeps binaries in a single public-read bucket. The object
// key doubles as the blob id.
type MinioBlobStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioBlobStore(client *minio.Client, bucket, publicURL string) *MinioBlobStore {
	return &MinioBlobStore{client: client, bucket: bucket, publicURL: publicURL}
}

func (s *MinioBlobStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, string, error) {
	objectKey := fmt.Sprintf("%d_%s", time.Now().UnixNano(), name)
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: put %s: %v", models.ErrBlobStore, name, err)
	}
	return objectKey, s.URLFor(objectKey), nil
}

func (s *MinioBlobStore) Delete(ctx context.Context, blobID string) error {
	err := s.client.RemoveObject(ctx, s.bucket, blobID, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return fmt.Errorf("%w: blob %s", models.ErrNotFound, blobID)
		}
		return fmt.Errorf("%w: delete %s: %v", models.ErrBlobStore, blobID, err)
	}
	return nil
}

func (s *MinioBlobStore) URLFor(blobID string) string {
	return fmt.Sprintf("%s/%s/%s",
		strings.TrimRight(s.publicURL, "/"),
		s.bucket,
		blobID,
	)
}

// PresignedURL returns a temporary download link, for buckets that are not
// publicly readable.
func (s *MinioBlobStore) PresignedURL(ctx context.Context, blobID string, expiry time.Duration) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, blobID, expiry, make(url.Values))
	if err != nil {
		return "", fmt.Errorf("%w: presign %s: %v", models.ErrBlobStore, blobID, err)
	}
	return presigned.String(), nil
}
