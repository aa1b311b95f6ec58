package storage

import (
	"context"
	"io"
)

// BlobStore is the content-addressed binary store boundary.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (blobID string, url string, err error)
	Delete(ctx context.Context, blobID string) error
	URLFor(blobID string) string
}

// Document is a raw record as returned by the document store. Fields are
// decoded through the model converters before any business use.
type Document struct {
	ID     string
	Fields map[string]any
}

type Op string

const (
	OpEqual      Op = "equal"
	OpNotEqual   Op = "notEqual"
	OpValueInSet Op = "valueInSet"
)

type Predicate struct {
	Field  string
	Op     Op
	Value  any
	Values []any
}

func Equal(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpEqual, Value: value}
}

func NotEqual(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpNotEqual, Value: value}
}

func ValueInSet(field string, values ...any) Predicate {
	return Predicate{Field: field, Op: OpValueInSet, Values: values}
}

// DocumentStore is the schema-less record store boundary.
type DocumentStore interface {
	Create(ctx context.Context, collection string, fields map[string]any) (Document, error)
	Read(ctx context.Context, collection, id string) (Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) (Document, error)
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, predicates ...Predicate) ([]Document, error)
}
