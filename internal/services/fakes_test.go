package services

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sync"

	"social-app/content-service/internal/models"
	"social-app/content-service/internal/storage"
)

type fakeBlobStore struct {
	mu          sync.Mutex
	objects     map[string][]byte
	putCalls    int
	deleteCalls []string
	putErr      error
	deleteErr   map[string]error
	nextID      int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		objects:   make(map[string][]byte),
		deleteErr: make(map[string]error),
	}
}

func (f *fakeBlobStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	if f.putErr != nil {
		return "", "", f.putErr
	}
	f.nextID++
	blobID := fmt.Sprintf("blob-%d_%s", f.nextID, name)
	data, _ := io.ReadAll(r)
	f.objects[blobID] = data
	return blobID, f.URLFor(blobID), nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, blobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, blobID)
	if err := f.deleteErr[blobID]; err != nil {
		return err
	}
	if _, ok := f.objects[blobID]; !ok {
		return fmt.Errorf("%w: blob %s", models.ErrNotFound, blobID)
	}
	delete(f.objects, blobID)
	return nil
}

func (f *fakeBlobStore) URLFor(blobID string) string {
	return "http://blobs.local/media/" + blobID
}

func (f *fakeBlobStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.putCalls + len(f.deleteCalls)
}

type fakeDocumentStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]any
	createErr   map[string]error
	updateErr   error
	deleteErr   map[string]error
	calls       int
	deleted     []string
	nextID      int
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{
		collections: make(map[string]map[string]map[string]any),
		createErr:   make(map[string]error),
		deleteErr:   make(map[string]error),
	}
}

func (f *fakeDocumentStore) collection(name string) map[string]map[string]any {
	if f.collections[name] == nil {
		f.collections[name] = make(map[string]map[string]any)
	}
	return f.collections[name]
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (f *fakeDocumentStore) Create(ctx context.Context, collection string, fields map[string]any) (storage.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.createErr[collection]; err != nil {
		return storage.Document{}, err
	}
	f.nextID++
	id := fmt.Sprintf("%s-%d", collection, f.nextID)
	f.collection(collection)[id] = copyFields(fields)
	return storage.Document{ID: id, Fields: copyFields(fields)}, nil
}

func (f *fakeDocumentStore) Read(ctx context.Context, collection, id string) (storage.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	fields, ok := f.collection(collection)[id]
	if !ok {
		return storage.Document{}, fmt.Errorf("%w: %s/%s", models.ErrNotFound, collection, id)
	}
	return storage.Document{ID: id, Fields: copyFields(fields)}, nil
}

func (f *fakeDocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) (storage.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.updateErr != nil {
		return storage.Document{}, f.updateErr
	}
	existing, ok := f.collection(collection)[id]
	if !ok {
		return storage.Document{}, fmt.Errorf("%w: %s/%s", models.ErrNotFound, collection, id)
	}
	for k, v := range fields {
		existing[k] = v
	}
	return storage.Document{ID: id, Fields: copyFields(existing)}, nil
}

func (f *fakeDocumentStore) Delete(ctx context.Context, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.deleted = append(f.deleted, collection+"/"+id)
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	if _, ok := f.collection(collection)[id]; !ok {
		return fmt.Errorf("%w: %s/%s", models.ErrNotFound, collection, id)
	}
	delete(f.collection(collection), id)
	return nil
}

func (f *fakeDocumentStore) Query(ctx context.Context, collection string, predicates ...storage.Predicate) ([]storage.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	var docs []storage.Document
	for id, fields := range f.collection(collection) {
		if matchesAll(fields, predicates) {
			docs = append(docs, storage.Document{ID: id, Fields: copyFields(fields)})
		}
	}
	return docs, nil
}

func matchesAll(fields map[string]any, predicates []storage.Predicate) bool {
	for _, p := range predicates {
		switch p.Op {
		case storage.OpEqual:
			if !reflect.DeepEqual(fields[p.Field], p.Value) {
				return false
			}
		case storage.OpNotEqual:
			if reflect.DeepEqual(fields[p.Field], p.Value) {
				return false
			}
		case storage.OpValueInSet:
			found := false
			for _, v := range p.Values {
				if reflect.DeepEqual(fields[p.Field], v) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

type fakeIdentityProvider struct {
	mu            sync.Mutex
	created       []string
	deleted       []string
	deleteErr     error
	codesSent     []string
	sessions      []string
	deletedRefs   []string
	createErr     error
	sessionErr    error
	sendErr       error
	updatedFields map[string]string
	nextID        int
}

func newFakeIdentityProvider() *fakeIdentityProvider {
	return &fakeIdentityProvider{updatedFields: make(map[string]string)}
}

func (f *fakeIdentityProvider) CreateIdentity(ctx context.Context, email, secret, displayName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := fmt.Sprintf("acct-%d", f.nextID)
	f.created = append(f.created, id)
	return id, nil
}

func (f *fakeIdentityProvider) DeleteIdentity(ctx context.Context, identityID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, identityID)
	return nil
}

func (f *fakeIdentityProvider) UpdateField(ctx context.Context, identityID, field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedFields[identityID+"/"+field] = value
	return nil
}

func (f *fakeIdentityProvider) CreateSession(ctx context.Context, identityID, secret string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionErr != nil {
		return "", f.sessionErr
	}
	ref := fmt.Sprintf("session-%s", identityID)
	f.sessions = append(f.sessions, ref)
	return ref, nil
}

func (f *fakeIdentityProvider) DeleteSession(ctx context.Context, sessionRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedRefs = append(f.deletedRefs, sessionRef)
	return nil
}

func (f *fakeIdentityProvider) SendVerificationCode(ctx context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.codesSent = append(f.codesSent, email)
	return fmt.Sprintf("challenge-%d", len(f.codesSent)), nil
}

func seedUser(docs *fakeDocumentStore, user *models.User) string {
	doc, _ := docs.Create(context.Background(), usersCollection, user.Fields())
	docs.mu.Lock()
	docs.calls--
	docs.mu.Unlock()
	return doc.ID
}

func seedPost(docs *fakeDocumentStore, post *models.Post) string {
	doc, _ := docs.Create(context.Background(), postsCollection, post.Fields())
	docs.mu.Lock()
	docs.calls--
	docs.mu.Unlock()
	return doc.ID
}
