package transform

import (
	"github.com/corebook/migrate/doc"
	"github.com/corebook/migrate/patch"
)

const (
	refField  = "_ref"
	weakField = "_weak"
)

// DraftRefRepair rewrites strong references pointing at draft ids to
// their published form and, in a second pass over the fetched set,
// queues placeholder documents for targets that exist only as drafts.
//
// A reference whose target exists neither as a draft nor published is
// still rewritten and left dangling. The original migration behaved this
// way; it is reproduced deliberately (see the dangling-target test).
type DraftRefRepair struct {
	// published ids every fixed reference now points at, in first-seen
	// order; scoped to one run.
	fixed     []string
	fixedSeen map[string]bool
}

func NewDraftRefRepair() *DraftRefRepair {
	return &DraftRefRepair{fixedSeen: map[string]bool{}}
}

func (t *DraftRefRepair) Name() string { return "draftrefs" }

func (t *DraftRefRepair) Mode() CommitMode { return Transactional }

func (t *DraftRefRepair) Apply(y *doc.Node, _ *KeyAllocator) (*patch.Descriptor, error) {
	d := doc.Walk(y, func(acc *patch.Descriptor, n *doc.Node, p doc.Path) *patch.Descriptor {
		if !isStrongDraftRef(n) {
			return acc
		}
		published := doc.PublishedID(n.GetString(refField))
		if !t.fixedSeen[published] {
			t.fixedSeen[published] = true
			t.fixed = append(t.fixed, published)
		}
		return acc.SetString(p.Child(doc.Field(refField)), published)
	}, patch.New(y.ID()))
	if d.Empty() {
		return nil, nil
	}
	return d, nil
}

func isStrongDraftRef(n *doc.Node) bool {
	if n.Kind != doc.ObjectKind {
		return false
	}
	ref := n.Get(refField)
	if ref == nil || ref.Kind != doc.StringKind {
		return false
	}
	if doc.PublishedID(ref.String) == ref.String {
		return false
	}
	weak := n.Get(weakField)
	return weak == nil || weak.Kind != doc.BoolKind || !weak.Bool
}

// Finish synthesizes a placeholder for every fixed reference whose target
// is not published but has a draft copy in the fetched set: the draft's
// fields under the published id, created only if nothing exists there by
// commit time. Targets with no copy at all yield nothing.
func (t *DraftRefRepair) Finish(set *DocSet) ([]*doc.Node, error) {
	var creates []*doc.Node
	for _, id := range t.fixed {
		if set.Has(id) {
			continue
		}
		draft := set.Lookup(doc.DraftPrefix + id)
		if draft == nil {
			continue
		}
		placeholder := draft.Clone()
		placeholder.Set(doc.IDField, doc.FromString(id))
		creates = append(creates, placeholder)
	}
	return creates, nil
}
