package formula

import (
	reflect "github.com/goccy/go-reflect"
)

// Expr is an immutable plural-selection formula. It is built once by
// Parse and may be evaluated concurrently with different counts:
// evaluation never mutates the tree.
type Expr struct {
	Source string
	root   node
}

// Eval reduces the formula to a plural-form index for the given count.
// The count may be any integer; no range is enforced here. A failed
// evaluation leaves the tree valid for later calls.
func (e *Expr) Eval(n int64) (int64, error) {
	return e.root.eval(n)
}

// Equal reports whether both formulas have the same structure,
// regardless of source spelling ("n||1" equals "n or 1").
func (e *Expr) Equal(other *Expr) bool {
	if e == nil || other == nil {
		return e == other
	}
	return reflect.DeepEqual(e.root, other.root)
}

// IsVariable reports whether the formula is the bare variable "n".
func (e *Expr) IsVariable() (ok bool) {
	_, ok = e.root.(variableNode)
	return ok
}

func (e *Expr) String() string {
	return e.Source
}
