// Package doc models dataset documents as recursive JSON-like values and
// provides deterministic traversal over them.
package doc

import "strconv"

type Kind int

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ObjectKind
	ArrayKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		NullKind:   "Null",
		BoolKind:   "Bool",
		NumberKind: "Number",
		StringKind: "String",
		ObjectKind: "Object",
		ArrayKind:  "Array",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) IsLeaf() bool {
	switch k {
	case ObjectKind, ArrayKind:
		return false
	default:
		return true
	}
}

// Node is one value in a document tree. Objects keep their keys in
// insertion order: Keys and Values are parallel slices. Arrays use Values
// alone. Transforms never mutate fetched nodes; they produce patch
// descriptors instead.
type Node struct {
	Kind Kind

	Bool   bool
	Number string
	String string

	Keys   []string
	Values []*Node
}

// IDField and TypeField identify and classify every stored document.
const (
	IDField   = "_id"
	TypeField = "_type"
)

// DraftPrefix marks the id of an unpublished working copy.
const DraftPrefix = "drafts."

func Null() *Node { return &Node{Kind: NullKind} }

func FromBool(v bool) *Node { return &Node{Kind: BoolKind, Bool: v} }

func FromString(v string) *Node { return &Node{Kind: StringKind, String: v} }

func FromInt(v int64) *Node {
	return &Node{Kind: NumberKind, Number: strconv.FormatInt(v, 10)}
}

func FromFloat(v float64) *Node {
	return &Node{Kind: NumberKind, Number: strconv.FormatFloat(v, 'g', -1, 64)}
}

// Object builds an object node from alternating key, value pairs,
// preserving the given order.
func Object(kvs ...any) *Node {
	if len(kvs)%2 != 0 {
		panic("doc.Object requires key, value pairs")
	}
	res := &Node{Kind: ObjectKind}
	for i := 0; i < len(kvs); i += 2 {
		res.Keys = append(res.Keys, kvs[i].(string))
		res.Values = append(res.Values, kvs[i+1].(*Node))
	}
	return res
}

func Array(vs ...*Node) *Node {
	return &Node{Kind: ArrayKind, Values: vs}
}

// Get returns the value at field, or nil when y is not an object or the
// field is absent.
func (y *Node) Get(field string) *Node {
	if y == nil || y.Kind != ObjectKind {
		return nil
	}
	for i, k := range y.Keys {
		if k == field {
			return y.Values[i]
		}
	}
	return nil
}

// GetString returns the string value at field, or "" when absent or not a
// string.
func (y *Node) GetString(field string) string {
	v := y.Get(field)
	if v == nil || v.Kind != StringKind {
		return ""
	}
	return v.String
}

// Set replaces or appends a field on an object node, in place. Used only
// for building values, never on fetched documents.
func (y *Node) Set(field string, v *Node) *Node {
	for i, k := range y.Keys {
		if k == field {
			y.Values[i] = v
			return y
		}
	}
	y.Keys = append(y.Keys, field)
	y.Values = append(y.Values, v)
	return y
}

// ID returns the document's _id, or "".
func (y *Node) ID() string { return y.GetString(IDField) }

// DocType returns the document's _type, or "".
func (y *Node) DocType() string { return y.GetString(TypeField) }

// IsDraft reports whether the node is a document with a drafts-prefixed id.
func (y *Node) IsDraft() bool {
	id := y.ID()
	return len(id) > len(DraftPrefix) && id[:len(DraftPrefix)] == DraftPrefix
}

// PublishedID strips the draft prefix from id, if present.
func PublishedID(id string) string {
	if len(id) > len(DraftPrefix) && id[:len(DraftPrefix)] == DraftPrefix {
		return id[len(DraftPrefix):]
	}
	return id
}

func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	res := &Node{
		Kind:   y.Kind,
		Bool:   y.Bool,
		Number: y.Number,
		String: y.String,
	}
	if y.Keys != nil {
		res.Keys = make([]string, len(y.Keys))
		copy(res.Keys, y.Keys)
	}
	if y.Values != nil {
		res.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			res.Values[i] = v.Clone()
		}
	}
	return res
}

// Equal compares two trees structurally, including object key order.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case NullKind:
		return true
	case BoolKind:
		return a.Bool == b.Bool
	case NumberKind:
		return a.Number == b.Number
	case StringKind:
		return a.String == b.String
	case ArrayKind:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case ObjectKind:
		if len(a.Keys) != len(b.Keys) {
			return false
		}
		for i := range a.Keys {
			if a.Keys[i] != b.Keys[i] {
				return false
			}
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	default:
		panic("kind")
	}
}
