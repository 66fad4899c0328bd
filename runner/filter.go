package runner

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/corebook/migrate/doc"
)

// Filter selects fetched documents by an expression evaluated against
// the document's fields, e.g. `_type == "post"`.
type Filter struct {
	src  string
	prog *vm.Program
}

func CompileFilter(src string) (*Filter, error) {
	prog, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("bad filter %q: %w", src, err)
	}
	return &Filter{src: src, prog: prog}, nil
}

func (f *Filter) String() string { return f.src }

// Match evaluates the filter against one document. Any result other than
// true excludes the document.
func (f *Filter) Match(y *doc.Node) (bool, error) {
	env, ok := y.ToAny().(map[string]any)
	if !ok {
		return false, nil
	}
	out, err := expr.Run(f.prog, env)
	if err != nil {
		return false, fmt.Errorf("filter %q on %s: %w", f.src, y.ID(), err)
	}
	b, ok := out.(bool)
	return ok && b, nil
}

// Select returns the documents matching the filter, preserving order.
func (f *Filter) Select(docs []*doc.Node) ([]*doc.Node, error) {
	res := make([]*doc.Node, 0, len(docs))
	for _, y := range docs {
		ok, err := f.Match(y)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, y)
		}
	}
	return res, nil
}
