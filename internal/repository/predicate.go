package repository

import "strings"

// predicate pairs a SQL fragment with the arguments that bind its
// placeholders. Keeping the two together per filter dimension guarantees
// fragment/argument correspondence no matter which filters are present.
type predicate struct {
	expr string
	args []interface{}
}

// predicateSet accumulates predicates in insertion order.
type predicateSet struct {
	preds []predicate
}

func (ps *predicateSet) add(expr string, args ...interface{}) {
	ps.preds = append(ps.preds, predicate{expr: expr, args: args})
}

// render joins the fragments with AND and flattens the arguments in
// fragment order. Returns ("", nil) when no predicates were added.
func (ps *predicateSet) render() (string, []interface{}) {
	if len(ps.preds) == 0 {
		return "", nil
	}

	exprs := make([]string, 0, len(ps.preds))
	var args []interface{}
	for _, p := range ps.preds {
		exprs = append(exprs, p.expr)
		args = append(args, p.args...)
	}

	return strings.Join(exprs, " AND "), args
}
