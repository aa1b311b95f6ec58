package models

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrBlobStore        = errors.New("blob store error")
	ErrDocumentStore    = errors.New("document store error")
	ErrIdentityProvider = errors.New("identity provider error")
	ErrTimeout          = errors.New("operation timed out")
)
