// Package querydoc builds queries and statements from declarative YAML
// documents:
//
//	queries:
//	  - name: adults
//	    from: customers
//	    where:
//	      - {column: Age, op: gt, value: 18}
//	      - {column: Name, op: not_null}
//	    order_by:
//	      - {column: Name}
//	    select: [Id, Name]
//	statements:
//	  - name: rename
//	    update: customers
//	    set:
//	      - {column: Name, value: Bob}
//	    where:
//	      - {column: Id, op: eq, param: id, value: 1}
//
// Each where entry becomes its own filter, so a document with several
// conditions exercises filter fusion. Literal values are coerced to the
// column's kind.
package querydoc
