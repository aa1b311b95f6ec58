package services

import (
	"context"
	"fmt"
	"log"

	"social-app/content-service/internal/identity"
	"social-app/content-service/internal/models"
	"social-app/content-service/internal/storage"
	"social-app/content-service/internal/utils"
)

// UsersService covers the single-store profile operations: lookups and
// field updates (username, email, privacy).
type UsersService struct {
	docs     storage.DocumentStore
	identity identity.Provider
	redis    *utils.RedisClient
}

func NewUsersService(docs storage.DocumentStore, provider identity.Provider, redis *utils.RedisClient) *UsersService {
	return &UsersService{docs: docs, identity: provider, redis: redis}
}

func (s *UsersService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	doc, err := s.docs.Read(ctx, usersCollection, userID)
	if err != nil {
		return nil, err
	}
	return models.UserFromFields(doc.ID, doc.Fields)
}

func (s *UsersService) GetByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	docs, err := s.docs.Query(ctx, usersCollection, storage.Equal("accountId", accountID))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: user with account %s", models.ErrNotFound, accountID)
	}
	return models.UserFromFields(docs[0].ID, docs[0].Fields)
}

// UpdateProfile applies username/email/privacy edits to the user document
// and mirrors identity-relevant fields to the provider best-effort.
func (s *UsersService) UpdateProfile(ctx context.Context, userID string, username, email *string, privacy *bool) (*models.User, error) {
	fields := map[string]any{}
	if username != nil {
		if *username == "" {
			return nil, fmt.Errorf("%w: username must not be empty", models.ErrValidation)
		}
		fields["username"] = *username
	}
	if email != nil {
		if *email == "" {
			return nil, fmt.Errorf("%w: email must not be empty", models.ErrValidation)
		}
		fields["email"] = *email
	}
	if privacy != nil {
		fields["privacy"] = *privacy
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", models.ErrValidation)
	}

	doc, err := s.docs.Update(ctx, usersCollection, userID, fields)
	if err != nil {
		return nil, err
	}
	user, err := models.UserFromFields(doc.ID, doc.Fields)
	if err != nil {
		return nil, err
	}

	if username != nil {
		if err := s.identity.UpdateField(ctx, user.AccountID, "name", *username); err != nil {
			log.Printf("[PROFILE] username for identity %s not mirrored: %v", user.AccountID, err)
		}
	}
	if email != nil {
		if err := s.identity.UpdateField(ctx, user.AccountID, "email", *email); err != nil {
			log.Printf("[PROFILE] email for identity %s not mirrored: %v", user.AccountID, err)
		}
	}

	s.InvalidateProfile(ctx, user.AccountID)
	return user, nil
}

// InvalidateProfile drops the cached profile after any user-document
// mutation.
func (s *UsersService) InvalidateProfile(ctx context.Context, accountID string) {
	if accountID == "" {
		return
	}
	if err := s.redis.Delete(ctx, "user_profile:"+accountID); err != nil {
		log.Printf("[PROFILE] cache for %s not invalidated: %v", accountID, err)
	}
}
