package doc

import "fmt"

type pathError struct {
	expr string
	msg  string
}

func (e *pathError) Error() string {
	return fmt.Sprintf("path %q: %s", e.expr, e.msg)
}

func errTrailingDot(expr string) error {
	return &pathError{expr: expr, msg: "trailing '.'"}
}

func errUnclosedIndex(expr string) error {
	return &pathError{expr: expr, msg: "expected '[' <index> ']'"}
}
