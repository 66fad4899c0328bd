package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/corebook/migrate/doc"
	"github.com/corebook/migrate/patch"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		Host:       srv.URL,
		APIVersion: "v1",
		Project:    "proj",
		Dataset:    "production",
		Tokens:     StaticToken("tok"),
		PageSize:   2,
	})
}

func queryHandler(t *testing.T, total int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v1/data/query/production") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		var ids []string
		for i := offset; i < total && i < offset+limit; i++ {
			ids = append(ids, fmt.Sprintf(`{"_id":"doc-%02d"}`, i))
		}
		fmt.Fprintf(w, `{"result":[%s]}`, strings.Join(ids, ","))
	}
}

func TestFetchAllPaginates(t *testing.T) {
	c := testClient(t, queryHandler(t, 5))
	docs, err := c.FetchAll(context.Background(), Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 5 {
		t.Fatalf("got %d docs, want 5", len(docs))
	}
	if docs[4].ID() != "doc-04" {
		t.Errorf("last id %q", docs[4].ID())
	}
}

func TestFetchAllLimit(t *testing.T) {
	c := testClient(t, queryHandler(t, 10))
	docs, err := c.FetchAll(context.Background(), Query{Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d docs, want 3", len(docs))
	}
}

func TestFetchAllEmptyPage(t *testing.T) {
	c := testClient(t, queryHandler(t, 0))
	docs, err := c.FetchAll(context.Background(), Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Errorf("got %d docs, want 0", len(docs))
	}
}

func TestCommitTransaction(t *testing.T) {
	var gotBody *doc.Node
	var gotAuth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method %s", r.Method)
		}
		if r.URL.Query().Get("visibility") != "sync" {
			t.Errorf("visibility %q", r.URL.Query().Get("visibility"))
		}
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		var err error
		gotBody, err = doc.DecodeJSON(body)
		if err != nil {
			t.Errorf("body: %v", err)
		}
		fmt.Fprint(w, `{"transactionId":"txn-1","results":[{"id":"a"},{"id":"x"}]}`)
	})

	txn := c.Transaction()
	txn.CreateIfNotExists(doc.Object("_id", doc.FromString("x")))
	txn.Patch(patch.New("a").SetString(doc.Path{doc.Field("_type")}, "richDate"))
	res, err := txn.Commit(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.TransactionID != "txn-1" {
		t.Errorf("txn id %q", res.TransactionID)
	}
	if len(res.DocumentIDs) != 2 || res.DocumentIDs[1] != "x" {
		t.Errorf("ids %v", res.DocumentIDs)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("auth %q", gotAuth)
	}
	if gotBody.GetString("transactionId") == "" {
		t.Error("expected client-minted transaction id")
	}
	muts := gotBody.Get("mutations")
	if len(muts.Values) != 2 {
		t.Fatalf("got %d mutations", len(muts.Values))
	}
	// creates queue ahead of patches
	if muts.Values[0].Get("createIfNotExists") == nil {
		t.Errorf("first mutation should be the create: %s", muts.Values[0].JSON())
	}
	wantPatch := `{"patch":{"id":"a","set":{"_type":"richDate"}}}`
	if got := string(muts.Values[1].JSON()); got != wantPatch {
		t.Errorf("got %s want %s", got, wantPatch)
	}
}

func TestCommitEach(t *testing.T) {
	var calls int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("visibility") != "async" {
			t.Errorf("visibility %q", r.URL.Query().Get("visibility"))
		}
		fmt.Fprintf(w, `{"transactionId":"txn-%d","results":[{"id":"doc-%d"}]}`, calls, calls)
	})
	txn := c.Transaction()
	txn.Patch(patch.New("a").SetString(doc.Path{doc.Field("x")}, "1"))
	txn.Patch(patch.New("b").SetString(doc.Path{doc.Field("x")}, "2"))
	res, err := txn.CommitEach(context.Background(), VisibilityAsync)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("got %d requests, want 2", calls)
	}
	if len(res.DocumentIDs) != 2 {
		t.Errorf("ids %v", res.DocumentIDs)
	}
	if res.TransactionID != "txn-2" {
		t.Errorf("txn id %q", res.TransactionID)
	}
}

func TestCommitErrorStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient permissions", http.StatusForbidden)
	})
	txn := c.Transaction()
	txn.Patch(patch.New("a").SetString(doc.Path{doc.Field("x")}, "1"))
	if _, err := txn.Commit(context.Background()); err == nil {
		t.Error("expected error on 403")
	}
}

func TestTokenChain(t *testing.T) {
	chain := Chain{StaticToken(""), StaticToken("fallback")}
	tok, err := chain.Token()
	if err != nil {
		t.Fatal(err)
	}
	if tok != "fallback" {
		t.Errorf("got %q", tok)
	}
	if _, err := (Chain{StaticToken("")}).Token(); err == nil {
		t.Error("expected error from empty chain")
	}
}

func TestEnvTokenBadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("not an assignment\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	_, err := EnvToken{}.Token()
	if err == nil {
		t.Fatal("expected error for malformed .env")
	}
	if errors.Is(err, ErrNoToken) {
		t.Errorf("malformed .env must not read as an absent token: %v", err)
	}
}

func TestEnvTokenAbsentDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(TokenEnvVar, "")
	if _, err := (EnvToken{}).Token(); !errors.Is(err, ErrNoToken) {
		t.Errorf("got %v, want ErrNoToken", err)
	}
}

func TestPromptToken(t *testing.T) {
	pt := &PromptToken{Project: "p", In: strings.NewReader("  secret  \n"), Out: &strings.Builder{}}
	tok, err := pt.Token()
	if err != nil {
		t.Fatal(err)
	}
	if tok != "secret" {
		t.Errorf("got %q", tok)
	}
}
