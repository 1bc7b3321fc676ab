package querysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/sqlfuse/internal/queryir"
)

// projectedLeaf is a projected expression awaiting registration.
type projectedLeaf struct {
	expr  queryir.Expr
	alias int
	field string
}

type projection struct {
	sql    string
	shape  any
	leaves []projectedLeaf
	ctx    Context
}

// compileProjection renders the SELECT list.
//
// When star is set, an identity projection renders "*" and exposes the
// source's own leaves. Otherwise each leaf renders as "expr AS field",
// where field is the column name for a plain column (first use only) and
// prjN for anything else, N being the leaf's position.
func compileProjection(sel *queryir.Select, row any, star bool, alias int, ctx Context) (projection, error) {
	out := sel.Projector(row)
	leaves, err := queryir.Flatten(out)
	if err != nil {
		return projection{}, projectionError(err)
	}
	if len(leaves) == 0 {
		return projection{}, newError(ErrCodeUnsupportedProjection, sel, "projection has no columns")
	}

	if star && (sel.Identity || queryir.SameRow(out, row)) {
		pending := make([]projectedLeaf, len(leaves))
		for i, leaf := range leaves {
			pending[i] = identityLeaf(leaf, i, alias, ctx)
		}
		return projection{sql: "*", shape: out, leaves: pending, ctx: ctx}, nil
	}

	parts := make([]string, len(leaves))
	pending := make([]projectedLeaf, len(leaves))
	used := make(map[string]bool, len(leaves))
	for i, leaf := range leaves {
		var sql string
		sql, ctx, err = compileExpr(leaf, ctx)
		if err != nil {
			return projection{}, err
		}
		var field string
		if col, ok := queryir.AsColumn(leaf); ok && !used[col.Name] {
			field = col.Name
		} else {
			for n := i; field == "" || used[field]; n++ {
				field = fmt.Sprintf("prj%d", n)
			}
		}
		used[field] = true
		parts[i] = sql + " AS " + field
		pending[i] = projectedLeaf{expr: leaf, alias: alias, field: field}
	}
	return projection{sql: strings.Join(parts, ", "), shape: out, leaves: pending, ctx: ctx}, nil
}

// identityLeaf names a leaf exposed through "*". A leaf re-exposed from a
// subquery keeps its field; a table column is exposed under its own name.
func identityLeaf(leaf queryir.Expr, i, alias int, ctx Context) projectedLeaf {
	if ref, ok := ctx.projection(leaf); ok {
		return projectedLeaf{expr: leaf, alias: alias, field: ref.field}
	}
	if col, ok := queryir.AsColumn(leaf); ok {
		return projectedLeaf{expr: leaf, alias: alias, field: col.Name}
	}
	return projectedLeaf{expr: leaf, alias: alias, field: fmt.Sprintf("prj%d", i)}
}

func projectionError(err error) error {
	var leafErr *queryir.UnsupportedLeafError
	if errors.As(err, &leafErr) {
		return &CompileError{Code: ErrCodeUnsupportedProjection, Node: "Select", Message: leafErr.Error(), Err: err}
	}
	return err
}
