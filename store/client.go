package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/corebook/migrate/debug"
	"github.com/corebook/migrate/doc"
)

const defaultPageSize = 100

// ClientConfig configures the API client.
type ClientConfig struct {
	// Host is the API endpoint, e.g. https://api.corebook.io.
	Host string
	// APIVersion is the version path component, e.g. "v1".
	APIVersion string
	Project    string
	Dataset    string
	Tokens     TokenSource

	// HTTPClient overrides the default client, used in tests.
	HTTPClient *http.Client
	// PageSize overrides the fetch window size.
	PageSize int
}

// Client talks to the dataset API. It implements Source and Sink.
type Client struct {
	cfg      ClientConfig
	hc       *http.Client
	pageSize int

	token string
}

func NewClient(cfg ClientConfig) *Client {
	c := &Client{cfg: cfg, hc: cfg.HTTPClient, pageSize: cfg.PageSize}
	if c.hc == nil {
		c.hc = &http.Client{Timeout: 30 * time.Second}
	}
	if c.pageSize == 0 {
		c.pageSize = defaultPageSize
	}
	return c
}

// FetchAll pages through the query result ordered by _id, offset windows
// of the page size, until a page returns fewer items than requested.
func (c *Client) FetchAll(ctx context.Context, q Query) ([]*doc.Node, error) {
	var res []*doc.Node
	offset := 0
	for {
		want := c.pageSize
		if q.Limit > 0 && q.Limit-len(res) < want {
			want = q.Limit - len(res)
		}
		if want <= 0 {
			return res, nil
		}
		page, err := c.queryPage(ctx, q.Q, offset, want)
		if err != nil {
			return nil, err
		}
		res = append(res, page...)
		if len(page) < want {
			return res, nil
		}
		offset += len(page)
	}
}

func (c *Client) queryPage(ctx context.Context, q string, offset, limit int) ([]*doc.Node, error) {
	u := fmt.Sprintf("%s/%s/data/query/%s?%s",
		c.cfg.Host, c.cfg.APIVersion, c.cfg.Dataset,
		url.Values{
			"query":  []string{q},
			"order":  []string{doc.IDField},
			"offset": []string{fmt.Sprintf("%d", offset)},
			"limit":  []string{fmt.Sprintf("%d", limit)},
		}.Encode())
	if debug.Fetch() {
		debug.Logf("fetch %s", u)
	}
	body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", c.cfg.Dataset, err)
	}
	node, err := doc.DecodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("error decoding query response: %w", err)
	}
	result := node.Get("result")
	if result == nil || result.Kind != doc.ArrayKind {
		return nil, fmt.Errorf("query response has no result array")
	}
	return result.Values, nil
}

// Transaction returns a builder committing through this client.
func (c *Client) Transaction() *Transaction {
	return NewTransaction(c)
}

// Commit submits all mutations as one atomic transaction with a
// client-minted transaction id.
func (c *Client) Commit(ctx context.Context, muts []Mutation) (*Result, error) {
	return c.mutate(ctx, muts, uuid.NewString(), VisibilitySync)
}

// CommitEach submits every mutation as its own commit. A failure aborts
// the loop; mutations already committed stay committed.
func (c *Client) CommitEach(ctx context.Context, muts []Mutation, vis Visibility) (*Result, error) {
	res := &Result{}
	for i, m := range muts {
		r, err := c.mutate(ctx, []Mutation{m}, uuid.NewString(), vis)
		if err != nil {
			return nil, fmt.Errorf("error committing mutation %d of %d (%d committed): %w",
				i+1, len(muts), i, err)
		}
		res.TransactionID = r.TransactionID
		res.DocumentIDs = append(res.DocumentIDs, r.DocumentIDs...)
	}
	return res, nil
}

func (c *Client) mutate(ctx context.Context, muts []Mutation, txnID string, vis Visibility) (*Result, error) {
	entries := make([]*doc.Node, 0, len(muts))
	for _, m := range muts {
		switch {
		case m.Patch != nil:
			entries = append(entries, doc.Object("patch", m.Patch.Node()))
		case m.Create != nil:
			entries = append(entries, doc.Object("createIfNotExists", m.Create))
		}
	}
	reqBody := doc.Object(
		"transactionId", doc.FromString(txnID),
		"mutations", doc.Array(entries...),
	)
	u := fmt.Sprintf("%s/%s/data/mutate/%s?returnIds=true&visibility=%s",
		c.cfg.Host, c.cfg.APIVersion, c.cfg.Dataset, vis)
	if debug.Commit() {
		debug.Logf("mutate %s: %s", u, reqBody.JSON())
	}
	body, err := c.do(ctx, http.MethodPost, u, reqBody.JSON())
	if err != nil {
		return nil, fmt.Errorf("error committing to %s: %w", c.cfg.Dataset, err)
	}
	node, err := doc.DecodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("error decoding mutate response: %w", err)
	}
	res := &Result{TransactionID: node.GetString("transactionId")}
	if results := node.Get("results"); results != nil {
		for _, r := range results.Values {
			if id := r.GetString("id"); id != "" {
				res.DocumentIDs = append(res.DocumentIDs, id)
			}
		}
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, u string, body []byte) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		tok, err := c.writeToken()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if c.cfg.Project != "" {
		req.Header.Set("X-Corebook-Project", c.cfg.Project)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, req.URL.Path, resp.StatusCode, respBody)
	}
	return respBody, nil
}

// writeToken resolves the write token once per client.
func (c *Client) writeToken() (string, error) {
	if c.token != "" {
		return c.token, nil
	}
	if c.cfg.Tokens == nil {
		return "", fmt.Errorf("no token source configured")
	}
	tok, err := c.cfg.Tokens.Token()
	if err != nil {
		return "", err
	}
	c.token = tok
	return tok, nil
}
