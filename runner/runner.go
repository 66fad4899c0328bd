// Package runner orchestrates one migration run: fetch, transform,
// preview, confirm, commit, report.
package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/corebook/migrate/debug"
	"github.com/corebook/migrate/doc"
	"github.com/corebook/migrate/patch"
	"github.com/corebook/migrate/store"
	"github.com/corebook/migrate/transform"
)

// State of a run. Failed absorbs from every other state on the first
// unrecoverable error.
type State int

const (
	Idle State = iota
	Fetching
	Transforming
	Summarizing
	Cancelled
	Committing
	Reporting
	Done
	Failed
)

func (s State) String() string {
	names := map[State]string{
		Idle:         "idle",
		Fetching:     "fetching",
		Transforming: "transforming",
		Summarizing:  "summarizing",
		Cancelled:    "cancelled",
		Committing:   "committing",
		Reporting:    "reporting",
		Done:         "done",
		Failed:       "failed",
	}
	if n, ok := names[s]; ok {
		return n
	}
	return "<unknown state>"
}

// Status is the terminal outcome of a run.
type Status int

const (
	StatusDone Status = iota
	StatusNothingToDo
	StatusDryRun
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	names := map[Status]string{
		StatusDone:        "done",
		StatusNothingToDo: "nothing to do",
		StatusDryRun:      "dry run",
		StatusCancelled:   "cancelled",
		StatusFailed:      "failed",
	}
	if n, ok := names[s]; ok {
		return n
	}
	return "<unknown status>"
}

// Outcome reports how a run ended.
type Outcome struct {
	Status  Status
	Result  *store.Result
	Patched int
	Created int
	Err     error
}

// Runner drives one migration over one dataset. Construct a fresh Runner
// per run; it carries per-run state.
type Runner struct {
	Source    store.Source
	Sink      store.Sink
	Transform transform.Transform
	Prompt    Prompt
	Out       io.Writer

	Dataset string
	Query   store.Query
	Filter  *Filter

	// DryRun stops after the preview; nothing is committed.
	DryRun bool
	// Yes skips the confirmation prompt.
	Yes bool
	// Verbose adds per-document diffs to the preview.
	Verbose bool

	state State
}

// State returns the runner's current state.
func (r *Runner) State() State { return r.state }

func (r *Runner) setState(s State) {
	r.state = s
	if debug.Transform() {
		debug.Logf("runner: %s", s)
	}
}

// Run executes the migration. All errors from external collaborators
// surface here, once; there is no retry and no partial recovery.
func (r *Runner) Run(ctx context.Context) *Outcome {
	out, err := r.run(ctx)
	r.setState(Reporting)
	if err != nil {
		out = &Outcome{Status: StatusFailed, Err: err}
	}
	r.report(out)
	if err != nil {
		r.setState(Failed)
		return out
	}
	r.setState(Done)
	return out
}

func (r *Runner) run(ctx context.Context) (*Outcome, error) {
	r.setState(Fetching)
	docs, err := r.Source.FetchAll(ctx, r.Query)
	if err != nil {
		return nil, fmt.Errorf("error fetching documents: %w", err)
	}
	if r.Filter != nil {
		docs, err = r.Filter.Select(docs)
		if err != nil {
			return nil, fmt.Errorf("error filtering documents: %w", err)
		}
	}
	if debug.Fetch() {
		debug.Logf("fetched %d documents", len(docs))
	}

	r.setState(Transforming)
	keys := transform.NewKeyAllocator()
	var descs []*patch.Descriptor
	for _, y := range docs {
		d, err := r.Transform.Apply(y, keys)
		if err != nil {
			return nil, fmt.Errorf("error transforming %s: %w", y.ID(), err)
		}
		if d.Empty() {
			continue
		}
		if debug.Patch() {
			debug.Logf("patch %s: %s", d.DocumentID, d.Node().JSON())
		}
		descs = append(descs, d)
	}
	var creates []*doc.Node
	if f, ok := r.Transform.(transform.Finisher); ok {
		creates, err = f.Finish(transform.NewDocSet(docs))
		if err != nil {
			return nil, fmt.Errorf("error finishing %s: %w", r.Transform.Name(), err)
		}
	}
	if len(descs) == 0 && len(creates) == 0 {
		return &Outcome{Status: StatusNothingToDo}, nil
	}

	r.setState(Summarizing)
	if err := r.preview(byID(docs), descs, creates); err != nil {
		return nil, err
	}
	if r.DryRun {
		return &Outcome{Status: StatusDryRun, Patched: len(descs), Created: len(creates)}, nil
	}
	if !r.Yes {
		question := fmt.Sprintf("apply %d patches and %d creates to dataset %s (%s)?",
			len(descs), len(creates), r.Dataset, r.Transform.Mode())
		ok, err := r.Prompt.Confirm(question)
		if err != nil {
			return nil, fmt.Errorf("error confirming: %w", err)
		}
		if !ok {
			r.setState(Cancelled)
			return &Outcome{Status: StatusCancelled}, nil
		}
	}

	r.setState(Committing)
	txn := r.Sink.Transaction()
	for _, c := range creates {
		txn.CreateIfNotExists(c)
	}
	for _, d := range descs {
		txn.Patch(d)
	}
	var res *store.Result
	if r.Transform.Mode() == transform.PerDocumentAsync {
		res, err = txn.CommitEach(ctx, store.VisibilityAsync)
	} else {
		res, err = txn.Commit(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("error committing: %w", err)
	}
	return &Outcome{
		Status:  StatusDone,
		Result:  res,
		Patched: len(descs),
		Created: len(creates),
	}, nil
}

func byID(docs []*doc.Node) map[string]*doc.Node {
	res := make(map[string]*doc.Node, len(docs))
	for _, y := range docs {
		if id := y.ID(); id != "" {
			res[id] = y
		}
	}
	return res
}
