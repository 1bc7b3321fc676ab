// Package schema loads table catalogs.
//
// A catalog names the tables that declarative query documents and
// conformance scenarios refer to. Catalogs are written in CUE:
//
//	package catalog
//
//	table: customers: {
//	    Id:   "int"
//	    Name: "string"
//	    Age:  "int"
//	}
//
// or in YAML:
//
//	tables:
//	  - name: customers
//	    columns:
//	      - {name: Id, type: int}
//
// Column order follows declaration order in both formats.
package schema
