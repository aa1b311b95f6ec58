package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"social-app/content-service/internal/models"
	"social-app/content-service/internal/storage"
)

// FeedService lists posts. Visibility is a property of the owner, not the
// post, so the public feed is a two-phase query: public owners first, then
// their posts.
type FeedService struct {
	docs     storage.DocumentStore
	ownerCap int
	timeout  time.Duration
}

func NewFeedService(docs storage.DocumentStore, ownerCap int, timeout time.Duration) *FeedService {
	if ownerCap <= 0 {
		ownerCap = 1000
	}
	return &FeedService{docs: docs, ownerCap: ownerCap, timeout: timeout}
}

// ListPublicPosts returns posts of non-private owners, avatar records
// excluded, newest first. No public owners means an empty feed, not an
// error. The in-set owner filter is capped; past the cap the query is
// refused rather than issued unbounded.
func (s *FeedService) ListPublicPosts(ctx context.Context) ([]models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	userDocs, err := s.docs.Query(ctx, usersCollection, storage.Equal("privacy", false))
	if err != nil {
		return nil, opError(ctx, err)
	}
	if len(userDocs) == 0 {
		return []models.Post{}, nil
	}
	if len(userDocs) > s.ownerCap {
		return nil, fmt.Errorf("%w: %d public owners exceeds the feed cap of %d", models.ErrValidation, len(userDocs), s.ownerCap)
	}

	ownerIDs := make([]any, 0, len(userDocs))
	for _, doc := range userDocs {
		ownerIDs = append(ownerIDs, doc.ID)
	}

	postDocs, err := s.docs.Query(ctx, postsCollection,
		storage.ValueInSet("ownerId", ownerIDs...),
		storage.NotEqual("mediaType", string(models.AvatarMedia)),
	)
	if err != nil {
		return nil, opError(ctx, err)
	}
	return decodePosts(postDocs), nil
}

// ListUserPosts returns one owner's posts, newest first.
func (s *FeedService) ListUserPosts(ctx context.Context, ownerID string) ([]models.Post, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", models.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	postDocs, err := s.docs.Query(ctx, postsCollection,
		storage.Equal("ownerId", ownerID),
		storage.NotEqual("mediaType", string(models.AvatarMedia)),
	)
	if err != nil {
		return nil, opError(ctx, err)
	}
	return decodePosts(postDocs), nil
}

func decodePosts(docs []storage.Document) []models.Post {
	posts := make([]models.Post, 0, len(docs))
	for _, doc := range docs {
		post, err := models.PostFromFields(doc.ID, doc.Fields)
		if err != nil {
			log.Printf("[FEED] skipping malformed post %s: %v", doc.ID, err)
			continue
		}
		posts = append(posts, *post)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}
