package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"social-app/content-service/internal/models"
	"social-app/content-service/internal/storage"
)

// UploadService creates and deletes posts. A post lives in two stores at
// once (blob + document), and either write can fail independently; the
// service compensates the blob write when the document write fails and
// always propagates the original error.
type UploadService struct {
	blobs   storage.BlobStore
	docs    storage.DocumentStore
	timeout time.Duration
}

func NewUploadService(blobs storage.BlobStore, docs storage.DocumentStore, timeout time.Duration) *UploadService {
	return &UploadService{blobs: blobs, docs: docs, timeout: timeout}
}

func (s *UploadService) Upload(ctx context.Context, ownerID string, payload io.Reader, size int64, contentType, filename, title, description string) (*models.Post, error) {
	// Preconditions first: nothing below may run before these pass.
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", models.ErrValidation)
	}
	if payload == nil || size <= 0 {
		return nil, fmt.Errorf("%w: file is required", models.ErrValidation)
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", models.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	blobID, url, err := s.blobs.Put(ctx, filename, payload, size, contentType)
	if err != nil {
		return nil, opError(ctx, err)
	}

	mediaType := models.DetectMediaType(filename)

	ownerDoc, err := s.docs.Read(ctx, usersCollection, ownerID)
	if err != nil {
		s.reclaimBlob(blobID)
		return nil, opError(ctx, err)
	}
	owner, err := models.UserFromFields(ownerDoc.ID, ownerDoc.Fields)
	if err != nil {
		s.reclaimBlob(blobID)
		return nil, err
	}

	post := &models.Post{
		OwnerID:     owner.ID,
		BlobID:      blobID,
		URL:         url,
		Title:       title,
		Description: description,
		MediaType:   mediaType,
		CreatedAt:   time.Now().UTC(),
	}
	created, err := s.docs.Create(ctx, postsCollection, post.Fields())
	if err != nil {
		s.reclaimBlob(blobID)
		return nil, opError(ctx, err)
	}
	post.ID = created.ID
	return post, nil
}

// DeletePost removes a single post, document first. A failed blob delete
// after the document is gone leaves an orphan, which is logged, not
// surfaced: the post itself is no longer reachable.
func (s *UploadService) DeletePost(ctx context.Context, postID, requesterID string) error {
	if postID == "" || requesterID == "" {
		return fmt.Errorf("%w: post id and requester id are required", models.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc, err := s.docs.Read(ctx, postsCollection, postID)
	if err != nil {
		return opError(ctx, err)
	}
	post, err := models.PostFromFields(doc.ID, doc.Fields)
	if err != nil {
		return err
	}
	if post.OwnerID != requesterID {
		return fmt.Errorf("%w: post %s does not belong to requester", models.ErrValidation, postID)
	}

	if err := s.docs.Delete(ctx, postsCollection, postID); err != nil {
		return opError(ctx, err)
	}
	if post.BlobID != "" {
		if err := s.blobs.Delete(ctx, post.BlobID); err != nil {
			log.Printf("[COMPENSATION] post %s deleted but blob %s remains: %v", postID, post.BlobID, err)
		}
	}
	return nil
}

// reclaimBlob undoes an earlier blob write on a fresh context, since the
// request context may already be dead. Failure is consistency debt: logged,
// never returned.
func (s *UploadService) reclaimBlob(blobID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.blobs.Delete(ctx, blobID); err != nil {
		log.Printf("[COMPENSATION] failed to delete blob %s: %v", blobID, err)
	}
}
