package patch

import (
	"testing"

	"github.com/corebook/migrate/doc"
)

func mustDecode(t *testing.T, in string) *doc.Node {
	t.Helper()
	n, err := doc.DecodeJSON([]byte(in))
	if err != nil {
		t.Fatalf("decode %q: %v", in, err)
	}
	return n
}

func TestDescriptorNode(t *testing.T) {
	d := New("a").
		SetString(doc.Path{doc.Field("_type")}, "richDate").
		SetString(doc.Path{doc.Field("nested"), doc.Field("_type")}, "richDate").
		UnsetPath(doc.Path{doc.Field("old")})
	want := `{"id":"a","set":{"_type":"richDate","nested._type":"richDate"},"unset":["old"]}`
	if got := string(d.Node().JSON()); got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestEmpty(t *testing.T) {
	var nilDesc *Descriptor
	if !nilDesc.Empty() {
		t.Error("nil descriptor should be empty")
	}
	if !New("a").Empty() {
		t.Error("fresh descriptor should be empty")
	}
	if New("a").SetString(doc.Path{doc.Field("x")}, "y").Empty() {
		t.Error("descriptor with set op should not be empty")
	}
}

func TestApplySetAndUnset(t *testing.T) {
	y := mustDecode(t, `{"_id":"a","_type":"date","body":[{"_type":"date"}],"legacy":1}`)
	d := New("a").
		SetString(doc.Path{doc.Field("_type")}, "richDate").
		SetString(doc.Path{doc.Field("body"), doc.Index(0), doc.Field("_type")}, "richDate").
		UnsetPath(doc.Path{doc.Field("legacy")})
	res, err := Apply(d, y)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"_id":"a","_type":"richDate","body":[{"_type":"richDate"}]}`
	if got := string(res.JSON()); got != want {
		t.Errorf("got %s want %s", got, want)
	}
	// input untouched
	if y.DocType() != "date" {
		t.Error("apply mutated input")
	}
}

func TestApplyAddsNewFields(t *testing.T) {
	y := mustDecode(t, `{"_id":"a"}`)
	d := New("a").SetNode(doc.Path{doc.Field("children")}, mustDecode(t, `[1,2]`))
	res, err := Apply(d, y)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(res.Get("children").JSON()); got != "[1,2]" {
		t.Errorf("got %s", got)
	}
}

func TestApplyRemoveMissingFails(t *testing.T) {
	y := mustDecode(t, `{"_id":"a"}`)
	d := New("a").UnsetPath(doc.Path{doc.Field("nope")})
	if _, err := Apply(d, y); err == nil {
		t.Error("expected error removing missing path")
	}
}
