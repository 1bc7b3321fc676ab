package queryir

import (
	"fmt"
)

// ValidationResult lists structural problems found in a query tree.
type ValidationResult struct {
	// Valid is true when Problems is empty.
	Valid bool

	// Problems describes each defect, outermost first.
	Problems []string
}

// Validate checks that a query tree is well formed: no nil children, no nil
// functions, no empty key lists.
//
// Validate only inspects structure. Whether the tree matches a compilable
// shape is decided by the compiler after normalization.
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		problems: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	if q == nil {
		v.addProblem("nil query node")
		return
	}

	switch n := q.(type) {
	case *From:
		v.validateTable("From", n.Table)
		if n.Row == nil {
			v.addProblem("From(%s): nil placeholder row", tableName(n.Table))
		}
	case *FromSubquery:
		v.validateQuery(n.Query)
	case *Select:
		if n.Projector == nil {
			v.addProblem("Select: nil projector")
		}
		v.validateQuery(n.Source)
	case *Where:
		if n.Predicate == nil {
			v.addProblem("Where: nil predicate")
		}
		v.validateQuery(n.Source)
	case *OrderBy:
		if len(n.Keys) == 0 {
			v.addProblem("OrderBy: no sort keys")
		}
		for i, k := range n.Keys {
			if k.Key == nil {
				v.addProblem("OrderBy: nil key at position %d", i)
			}
		}
		v.validateQuery(n.Source)
	case *GroupBy:
		if n.Key == nil {
			v.addProblem("GroupBy: nil key function")
		}
		if n.Group == nil {
			v.addProblem("GroupBy: nil group constructor")
		}
		v.validateQuery(n.Source)
	case *Having:
		if n.Predicate == nil {
			v.addProblem("Having: nil predicate")
		}
		v.validateQuery(n.Source)
	case *Join:
		v.validateJoin(n)
	case *Scalar:
		if n.Selector == nil && n.Func != AggCount {
			v.addProblem("Scalar[%s]: nil selector", n.Func)
		}
		v.validateQuery(n.Source)
	default:
		v.addProblem("unknown query type %T", q)
	}
}

func (v *validator) validateJoin(j *Join) {
	if len(j.Legs) == 0 {
		v.addProblem("Join: no join legs")
	}
	for i, leg := range j.Legs {
		v.validateTable(fmt.Sprintf("Join leg %d", i), leg.Table)
		if leg.OuterKey == nil || leg.InnerKey == nil {
			v.addProblem("Join leg %d: nil key function", i)
		}
		if leg.Result == nil {
			v.addProblem("Join leg %d: nil result selector", i)
		}
	}
	v.validateQuery(j.Outer)
}

func (v *validator) validateTable(where string, t *Table) {
	if t == nil {
		v.addProblem("%s: nil table", where)
		return
	}
	if t.Name() == "" {
		v.addProblem("%s: table has empty name", where)
	}
}
