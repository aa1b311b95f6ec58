package models

import (
	"fmt"
	"strings"
	"time"
)

type MediaType string

const (
	ImageMedia MediaType = "image"
	VideoMedia MediaType = "video"
	AudioMedia MediaType = "audio"
	OtherMedia MediaType = "other"

	// AvatarMedia marks avatar blobs tracked in the posts collection.
	// It never appears in the public feed.
	AvatarMedia MediaType = "avatar"
)

var extensionTypes = map[string]MediaType{
	"jpg": ImageMedia, "jpeg": ImageMedia, "png": ImageMedia, "gif": ImageMedia,
	"bmp": ImageMedia, "svg": ImageMedia, "webp": ImageMedia,
	"mp4": VideoMedia, "avi": VideoMedia, "mov": VideoMedia, "mkv": VideoMedia,
	"webm": VideoMedia,
	"mp3": AudioMedia, "wav": AudioMedia, "ogg": AudioMedia, "flac": AudioMedia,
}

// DetectMediaType classifies a file by its name extension.
func DetectMediaType(filename string) MediaType {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return OtherMedia
	}
	ext := strings.ToLower(filename[idx+1:])
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return OtherMedia
}

type Post struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	BlobID      string    `json:"blob_id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MediaType   MediaType `json:"media_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Fields returns the wire shape persisted in the posts collection.
func (p *Post) Fields() map[string]any {
	return map[string]any{
		"ownerId":     p.OwnerID,
		"blobId":      p.BlobID,
		"url":         p.URL,
		"title":       p.Title,
		"description": p.Description,
		"mediaType":   string(p.MediaType),
		"createdAt":   p.CreatedAt,
	}
}

// PostFromFields decodes a raw posts document, rejecting missing or
// mistyped fields instead of passing them through.
func PostFromFields(id string, fields map[string]any) (*Post, error) {
	p := &Post{ID: id}
	var err error
	if p.OwnerID, err = stringField(id, fields, "ownerId"); err != nil {
		return nil, err
	}
	if p.BlobID, err = stringField(id, fields, "blobId"); err != nil {
		return nil, err
	}
	if p.URL, err = stringField(id, fields, "url"); err != nil {
		return nil, err
	}
	if p.Title, err = stringField(id, fields, "title"); err != nil {
		return nil, err
	}
	if p.Description, err = stringField(id, fields, "description"); err != nil {
		return nil, err
	}
	mt, err := stringField(id, fields, "mediaType")
	if err != nil {
		return nil, err
	}
	p.MediaType = MediaType(mt)
	created, ok := fields["createdAt"].(time.Time)
	if !ok {
		return nil, fmt.Errorf("%w: post %s: bad createdAt", ErrDocumentStore, id)
	}
	p.CreatedAt = created
	return p, nil
}

func stringField(id string, fields map[string]any, name string) (string, error) {
	v, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("%w: document %s: missing field %s", ErrDocumentStore, id, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: document %s: field %s is not a string", ErrDocumentStore, id, name)
	}
	return s, nil
}
