package doc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DecodeJSON parses JSON into a Node, preserving object key order. The
// standard map decoding would lose it, so decoding works at the token
// level.
func DecodeJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	node, err := decodeValue(dec, nil)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after document")
	}
	return node, nil
}

func decodeValue(dec *json.Decoder, tok json.Token) (*Node, error) {
	if tok == nil {
		var err error
		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			res := &Node{Kind: ObjectKind, Keys: []string{}, Values: []*Node{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				val, err := decodeValue(dec, nil)
				if err != nil {
					return nil, err
				}
				res.Keys = append(res.Keys, key)
				res.Values = append(res.Values, val)
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return nil, err
			}
			return res, nil
		case '[':
			res := &Node{Kind: ArrayKind, Values: []*Node{}}
			for dec.More() {
				val, err := decodeValue(dec, nil)
				if err != nil {
					return nil, err
				}
				res.Values = append(res.Values, val)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, err
			}
			return res, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return FromString(t), nil
	case json.Number:
		return &Node{Kind: NumberKind, Number: t.String()}, nil
	case bool:
		return FromBool(t), nil
	case nil:
		return Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// EncodeJSON writes the node as compact JSON, objects in key order.
func EncodeJSON(y *Node, w io.Writer) error {
	buf := &bytes.Buffer{}
	if err := encodeValue(y, buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// JSON returns the node as compact JSON bytes.
func (y *Node) JSON() []byte {
	buf := &bytes.Buffer{}
	if err := encodeValue(y, buf); err != nil {
		panic(err) // node trees are always encodable
	}
	return buf.Bytes()
}

func encodeValue(y *Node, buf *bytes.Buffer) error {
	if y == nil {
		buf.WriteString("null")
		return nil
	}
	switch y.Kind {
	case NullKind:
		buf.WriteString("null")
	case BoolKind:
		if y.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case NumberKind:
		if y.Number == "" {
			buf.WriteString("0")
			return nil
		}
		buf.WriteString(y.Number)
	case StringKind:
		d, err := json.Marshal(y.String)
		if err != nil {
			return err
		}
		buf.Write(d)
	case ArrayKind:
		buf.WriteByte('[')
		for i, v := range y.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(v, buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ObjectKind:
		buf.WriteByte('{')
		for i, k := range y.Keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			d, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(d)
			buf.WriteByte(':')
			if err := encodeValue(y.Values[i], buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown kind %d", y.Kind)
	}
	return nil
}

// IndentJSON returns the node as indented JSON, for previews.
func (y *Node) IndentJSON() []byte {
	compact := y.JSON()
	buf := &bytes.Buffer{}
	if err := json.Indent(buf, compact, "", "  "); err != nil {
		return compact
	}
	return buf.Bytes()
}

// ToAny converts the node to the plain Go value shapes used by filter
// expressions: map[string]any, []any and scalars. Object order is lost.
func (y *Node) ToAny() any {
	if y == nil {
		return nil
	}
	switch y.Kind {
	case NullKind:
		return nil
	case BoolKind:
		return y.Bool
	case StringKind:
		return y.String
	case NumberKind:
		n := json.Number(y.Number)
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, _ := n.Float64()
		return f
	case ArrayKind:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = v.ToAny()
		}
		return res
	case ObjectKind:
		res := make(map[string]any, len(y.Keys))
		for i, k := range y.Keys {
			res[k] = y.Values[i].ToAny()
		}
		return res
	default:
		panic("kind")
	}
}
