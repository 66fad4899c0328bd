package doc

import (
	"bytes"
	"strconv"
	"strings"
)

// Segment is one step in a key path: an object field or an array index.
type Segment struct {
	Field string
	Index int

	indexed bool
}

func Field(f string) Segment { return Segment{Field: f} }

func Index(i int) Segment { return Segment{Index: i, indexed: true} }

func (s Segment) IsIndex() bool { return s.indexed }

// Path locates a value within a document.
type Path []Segment

// Child returns p extended by s. The receiver is never aliased, so
// reducers may retain returned paths.
func (p Path) Child(s Segment) Path {
	res := make(Path, len(p)+1)
	copy(res, p)
	res[len(p)] = s
	return res
}

// String renders the path in the expression syntax the mutation API
// consumes: fields dot-joined, indices bracketed, no leading separator.
// An empty path is the empty string.
func (p Path) String() string {
	buf := &bytes.Buffer{}
	for i, s := range p {
		if s.indexed {
			buf.WriteByte('[')
			buf.WriteString(strconv.Itoa(s.Index))
			buf.WriteByte(']')
			continue
		}
		if i > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(s.Field)
	}
	return buf.String()
}

// Pointer renders the path as an RFC 6901 JSON pointer, for applying
// descriptors to local copies of documents.
func (p Path) Pointer() string {
	if len(p) == 0 {
		return ""
	}
	buf := &bytes.Buffer{}
	for _, s := range p {
		buf.WriteByte('/')
		if s.indexed {
			buf.WriteString(strconv.Itoa(s.Index))
			continue
		}
		f := strings.ReplaceAll(s.Field, "~", "~0")
		f = strings.ReplaceAll(f, "/", "~1")
		buf.WriteString(f)
	}
	return buf.String()
}

// ParsePath parses the dotted/bracketed expression syntax back into a
// Path. It is the inverse of String for paths whose fields contain no
// '.', '[' or ']'.
func ParsePath(expr string) (Path, error) {
	if expr == "" {
		return nil, nil
	}
	var res Path
	rest := expr
	for rest != "" {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			if rest == "" {
				return nil, errTrailingDot(expr)
			}
		case '[':
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return nil, errUnclosedIndex(expr)
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return nil, err
			}
			res = append(res, Index(idx))
			rest = rest[end+1:]
		default:
			end := strings.IndexAny(rest, ".[")
			if end == -1 {
				res = append(res, Field(rest))
				rest = ""
				break
			}
			res = append(res, Field(rest[:end]))
			rest = rest[end:]
		}
	}
	return res, nil
}
