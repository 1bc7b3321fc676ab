package normalize

import (
	"fmt"

	"github.com/roach88/sqlfuse/internal/queryir"
)

// ShapeError reports a statement chain whose steps do not fit together,
// such as a Set applied to an INSERT.
type ShapeError struct {
	Node   string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unsupported statement shape at %s: %s", e.Node, e.Reason)
}

// Statement folds a builder chain into a plan. Values and assignments keep
// the order in which they were added; multiple filters are ANDed in the
// same order. Empty plans are returned as-is for the compiler to reject.
func Statement(s queryir.Statement) (queryir.Plan, error) {
	switch n := s.(type) {
	case *queryir.Insert:
		return &queryir.InsertPlan{Table: n.Table}, nil

	case *queryir.Value:
		inner, err := Statement(n.Inner)
		if err != nil {
			return nil, err
		}
		ins, ok := inner.(*queryir.InsertPlan)
		if !ok {
			return nil, &ShapeError{Node: "Value", Reason: "value applied to a non-INSERT statement"}
		}
		values := append(append([]queryir.Assignment{}, ins.Values...), queryir.Assignment{Column: n.Column, Value: n.Value})
		return &queryir.InsertPlan{Table: ins.Table, Values: values}, nil

	case *queryir.Update:
		return &queryir.UpdatePlan{Table: n.Table}, nil

	case *queryir.Set:
		inner, err := Statement(n.Inner)
		if err != nil {
			return nil, err
		}
		upd, ok := inner.(*queryir.UpdatePlan)
		if !ok {
			return nil, &ShapeError{Node: "Set", Reason: "assignment applied to a non-UPDATE statement"}
		}
		sets := append(append([]queryir.Assignment{}, upd.Sets...), queryir.Assignment{Column: n.Column, Value: n.Value})
		return &queryir.UpdatePlan{Table: upd.Table, Sets: sets, Where: upd.Where}, nil

	case *queryir.UpdateWhere:
		inner, err := Statement(n.Inner)
		if err != nil {
			return nil, err
		}
		upd, ok := inner.(*queryir.UpdatePlan)
		if !ok {
			return nil, &ShapeError{Node: "UpdateWhere", Reason: "filter applied to a non-UPDATE statement"}
		}
		return &queryir.UpdatePlan{Table: upd.Table, Sets: upd.Sets, Where: andExpr(upd.Where, n.Predicate)}, nil

	case *queryir.Delete:
		return &queryir.DeletePlan{Table: n.Table}, nil

	case *queryir.DeleteWhere:
		inner, err := Statement(n.Inner)
		if err != nil {
			return nil, err
		}
		del, ok := inner.(*queryir.DeletePlan)
		if !ok {
			return nil, &ShapeError{Node: "DeleteWhere", Reason: "filter applied to a non-DELETE statement"}
		}
		return &queryir.DeletePlan{Table: del.Table, Where: andExpr(del.Where, n.Predicate)}, nil

	case nil:
		return nil, &ShapeError{Node: "<nil>", Reason: "nil statement"}

	default:
		return nil, &ShapeError{Node: queryir.NodeName(s), Reason: fmt.Sprintf("unsupported statement type: %T", s)}
	}
}

func andExpr(a, b queryir.Expr) queryir.Expr {
	if a == nil {
		return b
	}
	return &queryir.Binary{Op: queryir.OpAnd, Left: a, Right: b}
}
