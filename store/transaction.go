package store

import (
	"context"

	"github.com/corebook/migrate/doc"
	"github.com/corebook/migrate/patch"
)

// Transaction accumulates mutations and submits them through a Committer.
// Creates queue ahead of patches so placeholders exist before any patch
// that references them applies.
type Transaction struct {
	c       Committer
	creates []Mutation
	patches []Mutation
}

func NewTransaction(c Committer) *Transaction {
	return &Transaction{c: c}
}

func (t *Transaction) Patch(d *patch.Descriptor) *Transaction {
	t.patches = append(t.patches, Mutation{Patch: d})
	return t
}

func (t *Transaction) CreateIfNotExists(y *doc.Node) *Transaction {
	t.creates = append(t.creates, Mutation{Create: y})
	return t
}

func (t *Transaction) Len() int {
	return len(t.creates) + len(t.patches)
}

func (t *Transaction) mutations() []Mutation {
	res := make([]Mutation, 0, t.Len())
	res = append(res, t.creates...)
	res = append(res, t.patches...)
	return res
}

// Commit applies everything as one atomic transaction.
func (t *Transaction) Commit(ctx context.Context) (*Result, error) {
	return t.c.Commit(ctx, t.mutations())
}

// CommitEach applies each mutation as its own commit with the given
// visibility. Best effort, not atomic.
func (t *Transaction) CommitEach(ctx context.Context, vis Visibility) (*Result, error) {
	return t.c.CommitEach(ctx, t.mutations(), vis)
}
