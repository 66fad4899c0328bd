package patch

import (
	"bytes"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/corebook/migrate/doc"
)

// Ops converts the descriptor to an RFC 6902 patch document. Set becomes
// "add" (which replaces existing object members), Unset becomes "remove".
// Set paths always terminate at object fields, so "add" never shifts
// array elements.
func (d *Descriptor) Ops() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('[')
	first := true
	sep := func() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
	}
	for _, op := range d.Set {
		sep()
		fmt.Fprintf(buf, `{"op":"add","path":%q,"value":`, op.Path.Pointer())
		buf.Write(op.Value.JSON())
		buf.WriteByte('}')
	}
	for _, p := range d.Unset {
		sep()
		fmt.Fprintf(buf, `{"op":"remove","path":%q}`, p.Pointer())
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Apply applies the descriptor to a local copy of the document and
// returns the result. The input is not modified. Commits happen remotely;
// this exists for previews and for checking transform idempotence.
func Apply(d *Descriptor, y *doc.Node) (*doc.Node, error) {
	ops, err := d.Ops()
	if err != nil {
		return nil, err
	}
	p, err := jsonpatch.DecodePatch(ops)
	if err != nil {
		return nil, fmt.Errorf("error decoding ops for %s: %w", d.DocumentID, err)
	}
	patched, err := p.Apply(y.JSON())
	if err != nil {
		return nil, fmt.Errorf("error applying patch to %s: %w", d.DocumentID, err)
	}
	res, err := doc.DecodeJSON(patched)
	if err != nil {
		return nil, fmt.Errorf("error decoding patched %s: %w", d.DocumentID, err)
	}
	return res, nil
}
