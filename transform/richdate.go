package transform

import (
	"github.com/corebook/migrate/doc"
	"github.com/corebook/migrate/patch"
)

// TypeRename rewrites every node sitting under a marker field with a
// marker value, anywhere in the document. The registered richdate
// migration is TypeRename{_type, "date", "richDate"}.
type TypeRename struct {
	Field string
	From  string
	To    string
}

func NewTypeRename(field, from, to string) *TypeRename {
	return &TypeRename{Field: field, From: from, To: to}
}

func (t *TypeRename) Name() string { return "richdate" }

func (t *TypeRename) Mode() CommitMode { return Transactional }

func (t *TypeRename) Apply(y *doc.Node, _ *KeyAllocator) (*patch.Descriptor, error) {
	d := doc.Walk(y, func(acc *patch.Descriptor, n *doc.Node, p doc.Path) *patch.Descriptor {
		if len(p) == 0 || p[len(p)-1].IsIndex() || p[len(p)-1].Field != t.Field {
			return acc
		}
		if n.Kind != doc.StringKind || n.String != t.From {
			return acc
		}
		return acc.SetString(p, t.To)
	}, patch.New(y.ID()))
	if d.Empty() {
		return nil, nil
	}
	return d, nil
}
