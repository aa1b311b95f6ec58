package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"social-app/content-service/internal/models"
)

// MongoDocumentStore maps the document store boundary onto mongo
// collections. Predicates translate to $eq/$ne/$in filters.
type MongoDocumentStore struct {
	db *mongo.Database
}

func NewMongoDocumentStore(db *mongo.Database) *MongoDocumentStore {
	return &MongoDocumentStore{db: db}
}

func (s *MongoDocumentStore) Create(ctx context.Context, collection string, fields map[string]any) (Document, error) {
	id := primitive.NewObjectID()
	record := bson.M{"_id": id}
	for k, v := range fields {
		record[k] = v
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, record); err != nil {
		return Document{}, fmt.Errorf("%w: create in %s: %v", models.ErrDocumentStore, collection, err)
	}
	return Document{ID: id.Hex(), Fields: fields}, nil
}

func (s *MongoDocumentStore) Read(ctx context.Context, collection, id string) (Document, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Document{}, fmt.Errorf("%w: document id %q", models.ErrValidation, id)
	}
	var raw bson.M
	err = s.db.Collection(collection).FindOne(ctx, bson.M{"_id": objID}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{}, fmt.Errorf("%w: %s/%s", models.ErrNotFound, collection, id)
	}
	if err != nil {
		return Document{}, fmt.Errorf("%w: read %s/%s: %v", models.ErrDocumentStore, collection, id, err)
	}
	return toDocument(raw), nil
}

func (s *MongoDocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) (Document, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Document{}, fmt.Errorf("%w: document id %q", models.ErrValidation, id)
	}
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	res, err := s.db.Collection(collection).UpdateByID(ctx, objID, bson.M{"$set": set})
	if err != nil {
		return Document{}, fmt.Errorf("%w: update %s/%s: %v", models.ErrDocumentStore, collection, id, err)
	}
	if res.MatchedCount == 0 {
		return Document{}, fmt.Errorf("%w: %s/%s", models.ErrNotFound, collection, id)
	}
	return s.Read(ctx, collection, id)
}

func (s *MongoDocumentStore) Delete(ctx context.Context, collection, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: document id %q", models.ErrValidation, id)
	}
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", models.ErrDocumentStore, collection, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s/%s", models.ErrNotFound, collection, id)
	}
	return nil
}

func (s *MongoDocumentStore) Query(ctx context.Context, collection string, predicates ...Predicate) ([]Document, error) {
	filter, err := buildFilter(predicates)
	if err != nil {
		return nil, err
	}
	cursor, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", models.ErrDocumentStore, collection, err)
	}
	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", models.ErrDocumentStore, collection, err)
	}
	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, toDocument(raw))
	}
	return docs, nil
}

func buildFilter(predicates []Predicate) (bson.M, error) {
	filter := bson.M{}
	for _, p := range predicates {
		switch p.Op {
		case OpEqual:
			filter[p.Field] = p.Value
		case OpNotEqual:
			filter[p.Field] = bson.M{"$ne": p.Value}
		case OpValueInSet:
			filter[p.Field] = bson.M{"$in": p.Values}
		default:
			return nil, fmt.Errorf("%w: unknown predicate %q", models.ErrValidation, p.Op)
		}
	}
	return filter, nil
}

func toDocument(raw bson.M) Document {
	doc := Document{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k == "_id" {
			if objID, ok := v.(primitive.ObjectID); ok {
				doc.ID = objID.Hex()
			}
			continue
		}
		doc.Fields[k] = normalize(v)
	}
	return doc
}

// normalize flattens driver-specific value types into plain Go ones so the
// model converters stay driver-agnostic.
func normalize(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	default:
		return v
	}
}
