package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var documentColumns = []string{"id", "collection", "data", "created_at", "updated_at"}

// documentStore implements DocumentStore on the documents table.
type documentStore struct {
	db *sql.DB
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (s *documentStore) GetDocument(ctx context.Context, collection, id string) (*Document, error) {
	return getDocument(ctx, s.db, collection, id)
}

func getDocument(ctx context.Context, q querier, collection, id string) (*Document, error) {
	query, args := builder().
		Select(documentColumns...).
		From(entsql.Table(DocumentsTable.Name)).
		Where(entsql.And(entsql.EQ("collection", collection), entsql.EQ("id", id))).
		Query()

	doc, err := scanDocument(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *documentStore) ListDocuments(ctx context.Context, collection string, filter Filter) ([]*Document, error) {
	sel := builder().
		Select(documentColumns...).
		From(entsql.Table(DocumentsTable.Name)).
		Where(entsql.EQ("collection", collection))

	for _, key := range slices.Sorted(maps.Keys(filter)) {
		sel.Where(entsql.ExprP("json_extract(`data`, ?) = ?", "$."+key, filter[key]))
	}
	query, args := sel.OrderBy("created_at", "id").Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *documentStore) CreateDocument(ctx context.Context, collection string, data Record) (*Document, error) {
	if data == nil {
		data = Record{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s document: %w", collection, err)
	}

	now := time.Now().UTC()
	doc := &Document{
		ID:         uuid.NewString(),
		Collection: collection,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	// Round-trip so callers see the same shapes a later read returns.
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return nil, fmt.Errorf("decode %s document: %w", collection, err)
	}

	query, args := builder().
		Insert(DocumentsTable.Name).
		Columns(documentColumns...).
		Values(doc.ID, collection, string(raw), now, now).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert %s document: %w", collection, err)
	}
	return doc, nil
}

func (s *documentStore) UpdateDocument(ctx context.Context, collection, id string, patch Record) (*Document, error) {
	doc, err := getDocument(ctx, s.db, collection, id)
	if err != nil {
		return nil, err
	}
	return mergeDocument(ctx, s.db, doc, patch)
}

func (s *documentStore) ModifyDocument(ctx context.Context, collection, id string, fn func(*Document) (Record, error)) (*Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin %s/%s: %w", collection, id, err)
	}
	defer tx.Rollback()

	doc, err := getDocument(ctx, tx, collection, id)
	if err != nil {
		return nil, err
	}
	patch, err := fn(doc)
	if err != nil {
		return nil, err
	}
	doc, err = mergeDocument(ctx, tx, doc, patch)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// mergeDocument shallow-merges patch into doc and writes it back.
func mergeDocument(ctx context.Context, q querier, doc *Document, patch Record) (*Document, error) {
	collection, id := doc.Collection, doc.ID
	merged := maps.Clone(doc.Data)
	if merged == nil {
		merged = Record{}
	}
	maps.Copy(merged, patch)

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	doc.Data = nil
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	doc.UpdatedAt = time.Now().UTC()

	query, args := builder().
		Update(DocumentsTable.Name).
		Set("data", string(raw)).
		Set("updated_at", doc.UpdatedAt).
		Where(entsql.And(entsql.EQ("collection", collection), entsql.EQ("id", id))).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *documentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	query, args := builder().
		Delete(DocumentsTable.Name).
		Where(entsql.And(entsql.EQ("collection", collection), entsql.EQ("id", id))).
		Query()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var (
		doc  Document
		data string
	)
	if err := row.Scan(&doc.ID, &doc.Collection, &data, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &doc.Data); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return &doc, nil
}
