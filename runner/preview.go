package runner

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/wI2L/jsondiff"

	"github.com/corebook/migrate/doc"
	"github.com/corebook/migrate/patch"
)

var (
	docColor    = color.New(color.FgCyan, color.Bold).SprintfFunc()
	setColor    = color.New(color.FgGreen).SprintFunc()
	unsetColor  = color.New(color.FgRed).SprintFunc()
	createColor = color.New(color.FgYellow).SprintfFunc()
)

// preview writes the change set, one block per document, one line per
// field set or unset, before any confirmation is requested.
func (r *Runner) preview(before map[string]*doc.Node, descs []*patch.Descriptor, creates []*doc.Node) error {
	w := r.Out
	for _, d := range descs {
		fmt.Fprintf(w, "%s\n", docColor("%s", d.DocumentID))
		for _, op := range d.Set {
			fmt.Fprintf(w, "  %s %s = %s\n", setColor("set"), op.Path, op.Value.JSON())
		}
		for _, p := range d.Unset {
			fmt.Fprintf(w, "  %s %s\n", unsetColor("unset"), p)
		}
		if r.Verbose {
			if err := r.previewDiff(w, before[d.DocumentID], d); err != nil {
				return err
			}
		}
	}
	for _, c := range creates {
		fmt.Fprintf(w, "%s\n", createColor("create if not exists %s", c.ID()))
	}
	fmt.Fprintf(w, "%d documents to patch, %d to create\n", len(descs), len(creates))
	return nil
}

// previewDiff shows the structural ops and a textual diff between the
// document as fetched and the document with the descriptor applied.
func (r *Runner) previewDiff(w io.Writer, y *doc.Node, d *patch.Descriptor) error {
	if y == nil {
		return nil
	}
	after, err := patch.Apply(d, y)
	if err != nil {
		return fmt.Errorf("error applying patch to %s: %w", d.DocumentID, err)
	}
	ops, err := jsondiff.CompareJSON(y.JSON(), after.JSON())
	if err != nil {
		return fmt.Errorf("error diffing %s: %w", d.DocumentID, err)
	}
	for _, op := range ops {
		fmt.Fprintf(w, "    %s\n", op.String())
	}
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMain(string(y.IndentJSON()), string(after.IndentJSON()), true)
	diffs = diffCfg.DiffCleanupSemantic(diffs)
	fmt.Fprintf(w, "%s\n", diffCfg.DiffPrettyText(diffs))
	return nil
}

// report writes the terminal outcome.
func (r *Runner) report(out *Outcome) {
	w := r.Out
	switch out.Status {
	case StatusNothingToDo:
		fmt.Fprintf(w, "nothing to do: no documents need %s\n", r.Transform.Name())
	case StatusDryRun:
		fmt.Fprintf(w, "dry run: %d patches and %d creates not committed\n", out.Patched, out.Created)
	case StatusCancelled:
		fmt.Fprintf(w, "cancelled: nothing committed\n")
	case StatusFailed:
		fmt.Fprintf(w, "migration %s failed: %v\n", r.Transform.Name(), out.Err)
	case StatusDone:
		fmt.Fprintf(w, "committed %s: %d documents\n", out.Result.TransactionID, len(out.Result.DocumentIDs))
		for _, id := range out.Result.DocumentIDs {
			fmt.Fprintf(w, "  %s\n", id)
		}
	}
}
