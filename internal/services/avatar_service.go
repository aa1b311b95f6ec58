package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"social-app/content-service/internal/models"
	"social-app/content-service/internal/storage"
)

// AvatarService replaces and removes user avatars. The swap order is
// upload-new, update-document, delete-old: the user keeps exactly one
// resolvable avatar at every observable point, and the worst partial
// failure is an orphaned blob.
type AvatarService struct {
	blobs   storage.BlobStore
	docs    storage.DocumentStore
	timeout time.Duration
}

func NewAvatarService(blobs storage.BlobStore, docs storage.DocumentStore, timeout time.Duration) *AvatarService {
	return &AvatarService{blobs: blobs, docs: docs, timeout: timeout}
}

func (s *AvatarService) SwapAvatar(ctx context.Context, userID string, payload io.Reader, size int64, contentType, filename string) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", models.ErrValidation)
	}
	if payload == nil || size <= 0 {
		return nil, fmt.Errorf("%w: file is required", models.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc, err := s.docs.Read(ctx, usersCollection, userID)
	if err != nil {
		return nil, opError(ctx, err)
	}
	user, err := models.UserFromFields(doc.ID, doc.Fields)
	if err != nil {
		return nil, err
	}
	oldBlobID := user.AvatarBlobID

	newBlobID, url, err := s.blobs.Put(ctx, filename, payload, size, contentType)
	if err != nil {
		return nil, opError(ctx, err)
	}

	_, err = s.docs.Update(ctx, usersCollection, userID, map[string]any{
		"avatarBlobId": newBlobID,
		"avatarUrl":    url,
	})
	if err != nil {
		s.reclaimBlob(newBlobID)
		return nil, opError(ctx, err)
	}

	// The new avatar is live; losing the old blob delete only leaves an
	// orphan behind.
	if oldBlobID != "" {
		if err := s.blobs.Delete(ctx, oldBlobID); err != nil {
			log.Printf("[COMPENSATION] user %s: old avatar blob %s not reclaimed: %v", userID, oldBlobID, err)
		}
	}

	user.AvatarBlobID = newBlobID
	user.AvatarURL = url
	return user, nil
}

// DeleteAvatar clears the avatar reference on the user document, then
// best-effort deletes the blob. The document update is the source of truth,
// so its failure is fatal while the blob delete is not.
func (s *AvatarService) DeleteAvatar(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", models.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc, err := s.docs.Read(ctx, usersCollection, userID)
	if err != nil {
		return opError(ctx, err)
	}
	user, err := models.UserFromFields(doc.ID, doc.Fields)
	if err != nil {
		return err
	}
	if user.AvatarBlobID == "" {
		return nil
	}

	_, err = s.docs.Update(ctx, usersCollection, userID, map[string]any{
		"avatarBlobId": "",
		"avatarUrl":    "",
	})
	if err != nil {
		return opError(ctx, err)
	}

	if err := s.blobs.Delete(ctx, user.AvatarBlobID); err != nil {
		log.Printf("[COMPENSATION] user %s: avatar blob %s not reclaimed: %v", userID, user.AvatarBlobID, err)
	}
	return nil
}

func (s *AvatarService) reclaimBlob(blobID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.blobs.Delete(ctx, blobID); err != nil {
		log.Printf("[COMPENSATION] failed to delete blob %s: %v", blobID, err)
	}
}
