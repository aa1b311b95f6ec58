package models

import (
	"errors"
	"testing"
	"time"
)

func TestDetectMediaType(t *testing.T) {
	cases := []struct {
		filename string
		want     MediaType
	}{
		{"photo.jpg", ImageMedia},
		{"photo.JPEG", ImageMedia},
		{"sticker.webp", ImageMedia},
		{"clip.mp4", VideoMedia},
		{"clip.webm", VideoMedia},
		{"song.mp3", AudioMedia},
		{"song.FLAC", AudioMedia},
		{"archive.zip", OtherMedia},
		{"noextension", OtherMedia},
		{"trailing.", OtherMedia},
		{"", OtherMedia},
	}
	for _, tc := range cases {
		if got := DetectMediaType(tc.filename); got != tc.want {
			t.Errorf("DetectMediaType(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestPostFieldsRoundTrip(t *testing.T) {
	post := &Post{
		OwnerID:     "users-1",
		BlobID:      "blob-1",
		URL:         "http://blobs.local/media/blob-1",
		Title:       "title",
		Description: "description",
		MediaType:   VideoMedia,
		CreatedAt:   time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	decoded, err := PostFromFields("posts-1", post.Fields())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	post.ID = "posts-1"
	if *decoded != *post {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, post)
	}
}

func TestPostFromFieldsRejectsMalformedDocuments(t *testing.T) {
	fields := (&Post{
		OwnerID:   "users-1",
		BlobID:    "blob-1",
		MediaType: ImageMedia,
		CreatedAt: time.Now(),
	}).Fields()
	delete(fields, "title")

	if _, err := PostFromFields("posts-1", fields); !errors.Is(err, ErrDocumentStore) {
		t.Fatalf("got %v, want ErrDocumentStore for a missing field", err)
	}

	fields["title"] = 42
	if _, err := PostFromFields("posts-1", fields); !errors.Is(err, ErrDocumentStore) {
		t.Fatalf("got %v, want ErrDocumentStore for a mistyped field", err)
	}
}
