// Package store persists completed analyses so the HTTP API can serve them
// back by ID.
//
// Two implementations satisfy [Store]:
//
//   - [MemoryStore]: process-local, used by tests and single-node servers
//   - [MongoStore]: a MongoDB collection named "analyses"
//
// IDs are random UUIDs assigned by [NewAnalysis].
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
	"github.com/matzehuels/dirgraph/pkg/graph"
)

// ErrNotFound is returned when no analysis has the requested ID.
var ErrNotFound = errors.New("analysis not found")

// Analysis is a saved graph and its layout.
type Analysis struct {
	ID          string       `json:"id" bson:"_id"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	FileSetHash string       `json:"fileset_hash" bson:"fileset_hash"`
	FileCount   int          `json:"file_count" bson:"file_count"`
	Source      string       `json:"source,omitempty" bson:"source,omitempty"` // e.g. "github:owner/repo"
	Graph       graph.Graph  `json:"graph" bson:"graph"`
	Layout      graph.Layout `json:"layout" bson:"layout"`
}

// Summary is the listing form of an Analysis.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	FileCount int       `json:"file_count" bson:"file_count"`
	Source    string    `json:"source,omitempty" bson:"source,omitempty"`
}

// NewAnalysis builds an Analysis with a fresh ID and creation time.
func NewAnalysis(fileSetHash string, fileCount int, data depgraph.Data, l graph.Layout) *Analysis {
	return &Analysis{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		FileSetHash: fileSetHash,
		FileCount:   fileCount,
		Graph:       graph.FromData(data),
		Layout:      l,
	}
}

// Summary returns the listing form of a.
func (a *Analysis) Summary() Summary {
	return Summary{ID: a.ID, CreatedAt: a.CreatedAt, FileCount: a.FileCount, Source: a.Source}
}

// Store saves and retrieves analyses.
type Store interface {
	// Save inserts a. Saving an existing ID replaces it.
	Save(ctx context.Context, a *Analysis) error

	// Get returns the analysis with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Analysis, error)

	// List returns up to limit summaries, newest first. A non-positive
	// limit returns all.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Delete removes the analysis with id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// ValidID reports whether id is a well-formed analysis ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}
