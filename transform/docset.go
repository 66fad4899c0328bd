package transform

import "github.com/corebook/migrate/doc"

// DocSet indexes one run's fetched documents by id, for transforms that
// need a whole-set pass after per-document application.
type DocSet struct {
	docs []*doc.Node
	byID map[string]*doc.Node
}

func NewDocSet(docs []*doc.Node) *DocSet {
	res := &DocSet{docs: docs, byID: make(map[string]*doc.Node, len(docs))}
	for _, d := range docs {
		if id := d.ID(); id != "" {
			res.byID[id] = d
		}
	}
	return res
}

func (s *DocSet) Lookup(id string) *doc.Node { return s.byID[id] }

func (s *DocSet) Has(id string) bool { return s.byID[id] != nil }

func (s *DocSet) Docs() []*doc.Node { return s.docs }
