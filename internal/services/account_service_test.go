package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"social-app/content-service/internal/models"
)

func newAccountFixture() (*AccountService, *fakeBlobStore, *fakeDocumentStore, *fakeIdentityProvider, string) {
	blobs := newFakeBlobStore()
	docs := newFakeDocumentStore()
	provider := newFakeIdentityProvider()
	userID := seedUser(docs, &models.User{
		Username:  "carol",
		Email:     "carol@example.com",
		Password:  "hashed",
		AccountID: "acct-carol",
	})
	svc := NewAccountService(blobs, docs, provider, 4, 5*time.Second)
	return svc, blobs, docs, provider, userID
}

func seedOwnedPosts(blobs *fakeBlobStore, docs *fakeDocumentStore, ownerID string, n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		blobID := fmt.Sprintf("blob-post-%d", i)
		blobs.objects[blobID] = []byte("data")
		id := seedPost(docs, &models.Post{
			OwnerID:     ownerID,
			BlobID:      blobID,
			URL:         blobs.URLFor(blobID),
			Title:       fmt.Sprintf("post %d", i),
			Description: "content",
			MediaType:   models.ImageMedia,
			CreatedAt:   time.Now().UTC(),
		})
		ids = append(ids, id)
	}
	return ids
}

func TestDeleteAccountRequiresBothIDs(t *testing.T) {
	svc, blobs, docs, provider, userID := newAccountFixture()

	for _, pair := range [][2]string{{"", "acct-carol"}, {userID, ""}, {"", ""}} {
		err := svc.DeleteAccount(context.Background(), pair[0], pair[1])
		if !errors.Is(err, models.ErrValidation) {
			t.Errorf("ids %q/%q: got %v, want ErrValidation", pair[0], pair[1], err)
		}
	}
	if blobs.calls() != 0 || docs.calls != 0 || len(provider.deleted) != 0 {
		t.Error("validation failure must not touch any store")
	}
}

func TestDeleteAccountToleratesPartialBlobFailures(t *testing.T) {
	svc, blobs, docs, provider, userID := newAccountFixture()
	postIDs := seedOwnedPosts(blobs, docs, userID, 5)

	// Two of five blob deletions fail; the cascade must not care.
	blobs.deleteErr["blob-post-1"] = fmt.Errorf("%w: unavailable", models.ErrBlobStore)
	blobs.deleteErr["blob-post-3"] = fmt.Errorf("%w: unavailable", models.ErrBlobStore)

	if err := svc.DeleteAccount(context.Background(), userID, "acct-carol"); err != nil {
		t.Fatalf("delete account failed: %v", err)
	}

	deletedPosts := 0
	for _, entry := range docs.deleted {
		if strings.HasPrefix(entry, postsCollection+"/") {
			deletedPosts++
		}
	}
	if deletedPosts != len(postIDs) {
		t.Errorf("attempted %d post document deletions, want %d", deletedPosts, len(postIDs))
	}
	if len(docs.collection(postsCollection)) != 0 {
		t.Errorf("%d post documents survived", len(docs.collection(postsCollection)))
	}
	if _, ok := docs.collection(usersCollection)[userID]; ok {
		t.Error("user document survived")
	}
	if len(provider.deleted) != 1 || provider.deleted[0] != "acct-carol" {
		t.Errorf("identity deletions = %v, want [acct-carol]", provider.deleted)
	}
}

func TestDeleteAccountFailsWhenUserDocumentSurvives(t *testing.T) {
	svc, blobs, docs, provider, userID := newAccountFixture()
	seedOwnedPosts(blobs, docs, userID, 2)
	docs.deleteErr[userID] = fmt.Errorf("%w: user delete rejected", models.ErrDocumentStore)

	err := svc.DeleteAccount(context.Background(), userID, "acct-carol")
	if !errors.Is(err, models.ErrDocumentStore) {
		t.Fatalf("got %v, want ErrDocumentStore", err)
	}
	if len(provider.deleted) != 0 {
		t.Error("identity must not be deleted when the user document survives")
	}
}

func TestDeleteAccountPropagatesIdentityFailure(t *testing.T) {
	svc, _, _, provider, userID := newAccountFixture()
	provider.deleteErr = fmt.Errorf("%w: provider down", models.ErrIdentityProvider)

	err := svc.DeleteAccount(context.Background(), userID, "acct-carol")
	if !errors.Is(err, models.ErrIdentityProvider) {
		t.Fatalf("got %v, want ErrIdentityProvider", err)
	}
}
