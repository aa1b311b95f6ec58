package models

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string `json:"id"`
	AccountID    string `json:"account_id"`
	Username     string `json:"username" validate:"required,min=3"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"-"`
	AvatarURL    string `json:"avatar_url"`
	AvatarBlobID string `json:"avatar_blob_id"`
	Privacy      bool   `json:"privacy"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

// Fields returns the wire shape persisted in the users collection.
func (u *User) Fields() map[string]any {
	return map[string]any{
		"username":     u.Username,
		"email":        u.Email,
		"password":     u.Password,
		"accountId":    u.AccountID,
		"avatarUrl":    u.AvatarURL,
		"avatarBlobId": u.AvatarBlobID,
		"privacy":      u.Privacy,
	}
}

// UserFromFields decodes a raw users document, rejecting missing or
// mistyped fields instead of passing them through.
func UserFromFields(id string, fields map[string]any) (*User, error) {
	u := &User{ID: id}
	var err error
	if u.Username, err = stringField(id, fields, "username"); err != nil {
		return nil, err
	}
	if u.Email, err = stringField(id, fields, "email"); err != nil {
		return nil, err
	}
	if u.Password, err = stringField(id, fields, "password"); err != nil {
		return nil, err
	}
	if u.AccountID, err = stringField(id, fields, "accountId"); err != nil {
		return nil, err
	}
	if u.AvatarURL, err = stringField(id, fields, "avatarUrl"); err != nil {
		return nil, err
	}
	if u.AvatarBlobID, err = stringField(id, fields, "avatarBlobId"); err != nil {
		return nil, err
	}
	privacy, ok := fields["privacy"].(bool)
	if !ok {
		return nil, fmt.Errorf("%w: user %s: bad privacy flag", ErrDocumentStore, id)
	}
	u.Privacy = privacy
	return u, nil
}
