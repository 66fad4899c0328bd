// Package store defines the remote dataset collaborators a migration run
// depends on, and the HTTP API client implementing them.
package store

import (
	"context"

	"github.com/corebook/migrate/doc"
	"github.com/corebook/migrate/patch"
)

// Query selects the documents a run fetches.
type Query struct {
	// Q is the dataset query expression, passed through to the API.
	// Empty selects everything.
	Q string
	// Limit caps the total number of fetched documents; 0 is unlimited.
	Limit int
}

// Source fetches all documents matching a query, page by fixed-size page
// ordered by _id, until a page comes back short.
type Source interface {
	FetchAll(ctx context.Context, q Query) ([]*doc.Node, error)
}

// Visibility of a per-document commit.
type Visibility string

const (
	VisibilitySync  Visibility = "sync"
	VisibilityAsync Visibility = "async"
)

// Mutation is one entry of a transaction: a patch or a conditional
// create, never both.
type Mutation struct {
	Patch  *patch.Descriptor
	Create *doc.Node
}

// Result reports a committed transaction.
type Result struct {
	TransactionID string
	DocumentIDs   []string
}

// Committer submits mutations to the remote store. Commit applies them
// all in one atomic transaction. CommitEach applies them independently,
// one commit per mutation, with no ordering guarantee and no rollback on
// partial failure.
type Committer interface {
	Commit(ctx context.Context, muts []Mutation) (*Result, error)
	CommitEach(ctx context.Context, muts []Mutation, vis Visibility) (*Result, error)
}

// Sink hands out transaction builders.
type Sink interface {
	Transaction() *Transaction
}

// TokenSource resolves a write-scoped API token. Transform logic never
// sees tokens; only the commit path does.
type TokenSource interface {
	Token() (string, error)
}
