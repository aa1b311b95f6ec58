package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"social-app/content-service/internal/identity"
	"social-app/content-service/internal/models"
	"social-app/content-service/internal/storage"
)

// AccountService cascades an account deletion: every post (document and
// blob), then the user document, then the identity. Per-post failures are
// tolerated by policy so a single stuck blob cannot block the whole
// deletion; the user-document and identity steps remain fatal.
type AccountService struct {
	blobs    storage.BlobStore
	docs     storage.DocumentStore
	identity identity.Provider
	workers  int
	timeout  time.Duration
}

func NewAccountService(blobs storage.BlobStore, docs storage.DocumentStore, provider identity.Provider, workers int, timeout time.Duration) *AccountService {
	if workers <= 0 {
		workers = 10
	}
	return &AccountService{blobs: blobs, docs: docs, identity: provider, workers: workers, timeout: timeout}
}

func (s *AccountService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	if userID == "" || accountID == "" {
		return fmt.Errorf("%w: user id and account id are required", models.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	postDocs, err := s.docs.Query(ctx, postsCollection, storage.Equal("ownerId", userID))
	if err != nil {
		return opError(ctx, err)
	}

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for _, doc := range postDocs {
		doc := doc
		g.Go(func() error {
			if err := s.docs.Delete(ctx, postsCollection, doc.ID); err != nil {
				log.Printf("[CASCADE] user %s: post %s document not deleted: %v", userID, doc.ID, err)
			}
			blobID, _ := doc.Fields["blobId"].(string)
			if blobID != "" {
				if err := s.blobs.Delete(ctx, blobID); err != nil {
					log.Printf("[CASCADE] user %s: post %s blob %s not deleted: %v", userID, doc.ID, blobID, err)
				}
			}
			return nil
		})
	}
	// Per-post errors are logged inside the pool; the join only waits.
	_ = g.Wait()

	if err := s.docs.Delete(ctx, usersCollection, userID); err != nil {
		return opError(ctx, err)
	}
	if err := s.identity.DeleteIdentity(ctx, accountID); err != nil {
		return opError(ctx, err)
	}
	return nil
}
