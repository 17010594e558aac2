package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Collections used by the learning workflows.
const (
	CollectionUsers       = "users"
	CollectionCareerPaths = "career_paths"
	CollectionQuizResults = "quiz_results"
)

// Record is the schemaless payload of a document.
type Record map[string]any

// String returns the string stored at key, or "".
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Float returns the number stored at key, or 0.
func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Document is one stored record with its identity and timestamps.
type Document struct {
	ID         string
	Collection string
	Data       Record
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Filter matches documents whose top-level fields equal the given values.
type Filter map[string]any

// DocumentStore is a minimal document database: collections of JSON
// records addressed by generated ids.
type DocumentStore interface {
	// GetDocument returns the document or ErrNotFound.
	GetDocument(ctx context.Context, collection, id string) (*Document, error)

	// ListDocuments returns the documents of a collection matching filter,
	// oldest first.
	ListDocuments(ctx context.Context, collection string, filter Filter) ([]*Document, error)

	// CreateDocument stores data under a new id.
	CreateDocument(ctx context.Context, collection string, data Record) (*Document, error)

	// UpdateDocument shallow-merges patch into the document's data.
	UpdateDocument(ctx context.Context, collection, id string, patch Record) (*Document, error)

	// ModifyDocument reads the document, passes it to fn and merges the
	// returned patch, all in one transaction. An error from fn aborts the
	// update and is returned unchanged.
	ModifyDocument(ctx context.Context, collection, id string, fn func(*Document) (Record, error)) (*Document, error)

	// DeleteDocument removes the document. Deleting a missing document
	// returns ErrNotFound.
	DeleteDocument(ctx context.Context, collection, id string) error
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Family       string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
	Failures     int
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns the event with the given id, or nil if none.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
