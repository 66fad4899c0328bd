// Package patch describes field-level mutations for single documents, the
// unit of output of every migration transform.
package patch

import (
	"github.com/corebook/migrate/doc"
)

// SetOp assigns a new value at one path.
type SetOp struct {
	Path  doc.Path
	Value *doc.Node
}

// Descriptor is one atomic intended change to one document. A transform
// produces at most one per document; the commit step consumes it once.
// Set and Unset keep the order in which the transform recorded them, so
// previews and request bodies are deterministic.
type Descriptor struct {
	DocumentID string
	Set        []SetOp
	Unset      []doc.Path
}

func New(documentID string) *Descriptor {
	return &Descriptor{DocumentID: documentID}
}

func (d *Descriptor) SetNode(p doc.Path, v *doc.Node) *Descriptor {
	d.Set = append(d.Set, SetOp{Path: p, Value: v})
	return d
}

func (d *Descriptor) SetString(p doc.Path, s string) *Descriptor {
	return d.SetNode(p, doc.FromString(s))
}

func (d *Descriptor) UnsetPath(p doc.Path) *Descriptor {
	d.Unset = append(d.Unset, p)
	return d
}

// Empty reports whether the descriptor changes nothing; empty descriptors
// are filtered out as no-ops.
func (d *Descriptor) Empty() bool {
	return d == nil || (len(d.Set) == 0 && len(d.Unset) == 0)
}

// Node renders the descriptor in the mutation API's wire shape:
// {id, set: {pathExpr: value}, unset: [pathExpr]}.
func (d *Descriptor) Node() *doc.Node {
	res := doc.Object("id", doc.FromString(d.DocumentID))
	if len(d.Set) > 0 {
		set := &doc.Node{Kind: doc.ObjectKind}
		for _, op := range d.Set {
			set.Set(op.Path.String(), op.Value)
		}
		res.Set("set", set)
	}
	if len(d.Unset) > 0 {
		unset := &doc.Node{Kind: doc.ArrayKind}
		for _, p := range d.Unset {
			unset.Values = append(unset.Values, doc.FromString(p.String()))
		}
		res.Set("unset", unset)
	}
	return res
}
