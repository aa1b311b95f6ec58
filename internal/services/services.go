package services

import (
	"context"
	"errors"
	"fmt"

	"social-app/content-service/internal/models"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

// opError maps a hit operation deadline to the timeout sentinel and leaves
// every other store error untouched, so callers always see the original
// failure.
func opError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", models.ErrTimeout, err)
	}
	return err
}
