// Package transform holds the closed set of named migrations. Each
// migration maps one document to a patch descriptor, or to nil when the
// document needs no change.
package transform

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/corebook/migrate/doc"
	"github.com/corebook/migrate/patch"
)

// CommitMode selects how a migration's patches are applied remotely.
type CommitMode int

const (
	// Transactional commits every patch and queued create in one atomic
	// transaction.
	Transactional CommitMode = iota
	// PerDocumentAsync commits each patch independently with asynchronous
	// visibility. No ordering between documents, no rollback on partial
	// failure.
	PerDocumentAsync
)

func (m CommitMode) String() string {
	if m == PerDocumentAsync {
		return "per-document async"
	}
	return "transactional"
}

// Transform is one migration. Apply inspects a single document and
// returns its patch descriptor, or nil when nothing matches. Instances
// are scoped to one run; any state they carry (the key allocator, pending
// reference records) must not outlive it.
type Transform interface {
	Name() string
	Apply(y *doc.Node, keys *KeyAllocator) (*patch.Descriptor, error)
	Mode() CommitMode
}

// Finisher is implemented by transforms needing a second pass over the
// whole fetched set once every document has been applied. It returns
// documents to create (if not existing) before the patches commit.
type Finisher interface {
	Finish(set *DocSet) ([]*doc.Node, error)
}

// Definition describes a registered migration.
type Definition struct {
	Name        string
	Description string
	New         func() Transform
}

var (
	mu       sync.RWMutex
	registry = map[string]*Definition{}
)

var ErrExists = errors.New("transform exists")

func Register(d *Definition) error {
	mu.Lock()
	defer mu.Unlock()
	if _, present := registry[d.Name]; present {
		return fmt.Errorf("%s: %w", d.Name, ErrExists)
	}
	registry[d.Name] = d
	return nil
}

func init() {
	Register(&Definition{
		Name:        "richdate",
		Description: "retag date values as richDate",
		New:         func() Transform { return NewTypeRename(doc.TypeField, "date", "richDate") },
	})
	Register(&Definition{
		Name:        "draftrefs",
		Description: "repair strong references to draft documents",
		New:         func() Transform { return NewDraftRefRepair() },
	})
	Register(&Definition{
		Name:        "blockmarks",
		Description: "split legacy block spans into children and markDefs",
		New:         func() Transform { return NewBlockMarks() },
	})
}

// New instantiates a fresh transform for one run.
func New(name string) (Transform, error) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown migration %q", name)
	}
	return d.New(), nil
}

// Definitions lists registered migrations by name.
func Definitions() []*Definition {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]*Definition, 0, len(registry))
	for _, d := range registry {
		res = append(res, d)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}
