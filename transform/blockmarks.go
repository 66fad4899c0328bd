package transform

import (
	"github.com/corebook/migrate/doc"
	"github.com/corebook/migrate/patch"
)

const (
	blockType  = "block"
	spansField = "spans"
	childField = "children"
	defsField  = "markDefs"
	marksField = "marks"
	keyField   = "_key"
	textField  = "text"
)

// spanKeep is the fixed set of span fields that survive into a child.
var spanKeep = map[string]bool{
	doc.TypeField: true,
	keyField:      true,
	textField:     true,
	marksField:    true,
}

// BlockMarks migrates legacy rich-text blocks: each element of a block's
// spans array is split into a sanitized child plus mark definitions
// extracted from non-empty object values under unrecognized keys. The
// block gets new children and markDefs fields and loses spans.
//
// Patches commit per document with asynchronous visibility rather than in
// one transaction. This is a deliberate relaxation of atomicity for this
// migration only: block rewrites are independent across documents and the
// affected datasets are large.
type BlockMarks struct{}

func NewBlockMarks() *BlockMarks { return &BlockMarks{} }

func (t *BlockMarks) Name() string { return "blockmarks" }

func (t *BlockMarks) Mode() CommitMode { return PerDocumentAsync }

func (t *BlockMarks) Apply(y *doc.Node, keys *KeyAllocator) (*patch.Descriptor, error) {
	d := doc.Walk(y, func(acc *patch.Descriptor, n *doc.Node, p doc.Path) *patch.Descriptor {
		if n.Kind != doc.ObjectKind || n.GetString(doc.TypeField) != blockType {
			return acc
		}
		spans := n.Get(spansField)
		if spans == nil || spans.Kind != doc.ArrayKind {
			return acc
		}
		children, defs := splitSpans(spans, keys)
		return acc.
			SetNode(p.Child(doc.Field(childField)), children).
			SetNode(p.Child(doc.Field(defsField)), defs).
			UnsetPath(p.Child(doc.Field(spansField)))
	}, patch.New(y.ID()))
	if d.Empty() {
		return nil, nil
	}
	return d, nil
}

func splitSpans(spans *doc.Node, keys *KeyAllocator) (children, defs *doc.Node) {
	children = &doc.Node{Kind: doc.ArrayKind, Values: []*doc.Node{}}
	defs = &doc.Node{Kind: doc.ArrayKind, Values: []*doc.Node{}}
	for _, span := range spans.Values {
		if span.Kind != doc.ObjectKind {
			children.Values = append(children.Values, span.Clone())
			continue
		}
		child := &doc.Node{Kind: doc.ObjectKind}
		var appended []*doc.Node
		for i, k := range span.Keys {
			v := span.Values[i]
			if spanKeep[k] {
				child.Set(k, v.Clone())
				continue
			}
			// unrecognized key: a non-empty object becomes a markDef
			// linked from the child; anything else is dropped
			if v.Kind != doc.ObjectKind || len(v.Keys) == 0 {
				continue
			}
			def := markDef(k, v, keys)
			defs.Values = append(defs.Values, def)
			appended = append(appended, doc.FromString(def.GetString(keyField)))
		}
		if len(appended) > 0 {
			marks := child.Get(marksField)
			if marks == nil {
				marks = &doc.Node{Kind: doc.ArrayKind}
				child.Set(marksField, marks)
			}
			marks.Values = append(marks.Values, appended...)
		}
		children.Values = append(children.Values, child)
	}
	return children, defs
}

func markDef(name string, v *doc.Node, keys *KeyAllocator) *doc.Node {
	// the name tag and the allocated key always win: a _type or _key the
	// object itself carries is dropped, never copied over them
	payload := doc.Object(doc.TypeField, doc.FromString(name))
	for i, k := range v.Keys {
		if k == doc.TypeField || k == keyField {
			continue
		}
		payload.Set(k, v.Values[i].Clone())
	}
	key := keys.Key(payload.JSON())
	def := doc.Object(doc.TypeField, doc.FromString(name), keyField, doc.FromString(key))
	for i, k := range v.Keys {
		if k == doc.TypeField || k == keyField {
			continue
		}
		def.Set(k, v.Values[i].Clone())
	}
	return def
}
