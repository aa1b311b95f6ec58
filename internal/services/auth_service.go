package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"social-app/content-service/internal/identity"
	"social-app/content-service/internal/models"
	"social-app/content-service/internal/storage"
	"social-app/content-service/internal/utils"
)

const profileCacheTTL = 5 * time.Minute

// AuthService handles the OTP sign-up/sign-in flows against the identity
// provider and the users collection, and mints the service session tokens.
type AuthService struct {
	docs     storage.DocumentStore
	identity identity.Provider
	jwtUtil  *utils.JWTUtil
	redis    *utils.RedisClient
}

func NewAuthService(docs storage.DocumentStore, provider identity.Provider, jwtUtil *utils.JWTUtil, redis *utils.RedisClient) *AuthService {
	return &AuthService{docs: docs, identity: provider, jwtUtil: jwtUtil, redis: redis}
}

// Register creates the identity and the user document for a new email, or
// re-sends the verification code for a known one. Creating a user spans
// both stores: a failed document write rolls the identity back.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, error) {
	if username == "" || email == "" || password == "" {
		return "", fmt.Errorf("%w: username, email and password are required", models.ErrValidation)
	}

	existing, err := s.findByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return "", err
	}

	var accountID string
	if existing != nil {
		accountID = existing.AccountID
	} else {
		user := &models.User{
			Username: username,
			Email:    email,
			Password: password,
		}
		if verr := utils.ValidateStruct(user); verr != nil {
			return "", fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(utils.ParseErrors(verr), "; "))
		}

		accountID, err = s.identity.CreateIdentity(ctx, email, password, username)
		if err != nil {
			return "", err
		}
		user.AccountID = accountID
		if err := user.HashPassword(); err != nil {
			return "", err
		}
		if _, err := s.docs.Create(ctx, usersCollection, user.Fields()); err != nil {
			if derr := s.identity.DeleteIdentity(ctx, accountID); derr != nil {
				log.Printf("[COMPENSATION] identity %s not rolled back after failed user create: %v", accountID, derr)
			}
			return "", err
		}
	}

	if _, err := s.identity.SendVerificationCode(ctx, email); err != nil {
		return "", err
	}
	return accountID, nil
}

// Login sends a verification code to a known email.
func (s *AuthService) Login(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("%w: email is required", models.ErrValidation)
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if _, err := s.identity.SendVerificationCode(ctx, email); err != nil {
		return "", err
	}
	return user.AccountID, nil
}

// VerifySecret exchanges the verification code for a provider session and
// mints the service token.
func (s *AuthService) VerifySecret(ctx context.Context, accountID, secret string) (string, error) {
	if accountID == "" || secret == "" {
		return "", fmt.Errorf("%w: account id and secret are required", models.ErrValidation)
	}

	sessionRef, err := s.identity.CreateSession(ctx, accountID, secret)
	if err != nil {
		return "", err
	}

	user, err := s.findByAccountID(ctx, accountID)
	if err != nil {
		return "", err
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, accountID)
	if err != nil {
		return "", err
	}
	if err := s.redis.Set(ctx, "session_ref:"+accountID, sessionRef, 72*time.Hour); err != nil {
		log.Printf("[AUTH] session ref for %s not cached: %v", accountID, err)
	}
	return token, nil
}

// Logout drops the provider session and blacklists the presented token for
// the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, accountID, tokenString string) error {
	sessionRef := "current"
	var cached string
	if err := s.redis.Get(ctx, "session_ref:"+accountID, &cached); err == nil && cached != "" {
		sessionRef = cached
	}
	if err := s.identity.DeleteSession(ctx, sessionRef); err != nil {
		log.Printf("[AUTH] provider session for %s not deleted: %v", accountID, err)
	}

	if err := s.redis.Set(ctx, "blacklist:"+tokenString, true, 72*time.Hour); err != nil {
		return err
	}
	_ = s.redis.Delete(ctx, "session_ref:"+accountID)
	_ = s.redis.Delete(ctx, "user_profile:"+accountID)
	return nil
}

// GetCurrentUser resolves the authenticated user's document, cached for a
// few minutes.
func (s *AuthService) GetCurrentUser(ctx context.Context, accountID string) (*models.User, error) {
	cacheKey := "user_profile:" + accountID

	var cached models.User
	if err := s.redis.Get(ctx, cacheKey, &cached); err == nil && cached.ID != "" {
		return &cached, nil
	}

	user, err := s.findByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := s.redis.Set(ctx, cacheKey, user, profileCacheTTL); err != nil {
		log.Printf("[AUTH] profile for %s not cached: %v", accountID, err)
	}
	return user, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, err := s.docs.Query(ctx, usersCollection, storage.Equal("email", email))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: user with email %s", models.ErrNotFound, email)
	}
	return models.UserFromFields(docs[0].ID, docs[0].Fields)
}

func (s *AuthService) findByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	docs, err := s.docs.Query(ctx, usersCollection, storage.Equal("accountId", accountID))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: user with account %s", models.ErrNotFound, accountID)
	}
	return models.UserFromFields(docs[0].ID, docs[0].Fields)
}
