package doc

import "testing"

func TestDecodeJSONKeyOrder(t *testing.T) {
	n := mustDecode(t, `{"z":1,"a":2,"m":{"q":3,"b":4}}`)
	if got := string(n.JSON()); got != `{"z":1,"a":2,"m":{"q":3,"b":4}}` {
		t.Errorf("key order lost: %s", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	ins := []string{
		`null`,
		`true`,
		`-12.5`,
		`"hi\nthere"`,
		`[]`,
		`{}`,
		`{"_id":"a","_type":"post","body":[{"x":null},2,3.25,"s"]}`,
	}
	for _, in := range ins {
		n := mustDecode(t, in)
		if got := string(n.JSON()); got != in {
			t.Errorf("got %s want %s", got, in)
		}
	}
}

func TestDecodeJSONTrailing(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{} {}`)); err == nil {
		t.Error("expected trailing data error")
	}
}

func TestNodeHelpers(t *testing.T) {
	n := mustDecode(t, `{"_id":"drafts.x","_type":"post","title":"t"}`)
	if n.ID() != "drafts.x" || n.DocType() != "post" {
		t.Errorf("id/type: %q %q", n.ID(), n.DocType())
	}
	if !n.IsDraft() {
		t.Error("expected draft")
	}
	if PublishedID("drafts.x") != "x" || PublishedID("x") != "x" {
		t.Error("published id")
	}
	if n.Get("missing") != nil {
		t.Error("expected nil for missing field")
	}
}

func TestCloneIndependent(t *testing.T) {
	n := mustDecode(t, `{"a":[1,2]}`)
	c := n.Clone()
	c.Get("a").Values[0] = FromInt(9)
	if string(n.JSON()) != `{"a":[1,2]}` {
		t.Errorf("clone shares state: %s", n.JSON())
	}
	if !Equal(n, mustDecode(t, `{"a":[1,2]}`)) {
		t.Error("equal")
	}
	if Equal(n, c) {
		t.Error("expected not equal after edit")
	}
}

func TestToAny(t *testing.T) {
	n := mustDecode(t, `{"_type":"post","n":3,"f":1.5,"ok":true,"xs":[null]}`)
	m, ok := n.ToAny().(map[string]any)
	if !ok {
		t.Fatal("expected map")
	}
	if m["_type"] != "post" || m["n"] != int64(3) || m["f"] != 1.5 || m["ok"] != true {
		t.Errorf("values: %v", m)
	}
}
