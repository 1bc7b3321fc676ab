// Package harness runs conformance scenarios for the query compiler.
//
// A scenario names a catalog, declares queries and statements in the
// query document format, and asserts on the compiled SQL, the bound
// parameters and the effect of running the SQLite rendering against an
// in-memory database.
//
// # Scenario Format
//
//	name: adults
//	description: "Filters fuse into one WHERE clause"
//	catalog: ../catalog.yaml
//	dialects: [sqlserver, sqlite]
//	setup:
//	  - {name: seed, insert: customers, values: [{column: Id, value: 1}]}
//	queries:
//	  - name: adults
//	    from: customers
//	    where:
//	      - {column: Age, op: gt, value: 18}
//	statements:
//	  - {name: purge, delete: customers}
//	assertions:
//	  - type: sql
//	    entry: adults
//	    dialect: sqlserver
//	    sql: "SELECT * FROM customers a0 WHERE a0.Age > @p0"
//	  - type: params
//	    entry: adults
//	    dialect: sqlserver
//	    params: {"@p0": 18}
//	  - type: row_count
//	    entry: adults
//	    count: 0
//	  - type: final_state
//	    table: customers
//	    where: {Id: 1}
//	    expect: {Name: Al}
//
// # Assertion Types
//
//   - sql: the entry compiled for the dialect to exactly this text
//   - params: the entry bound these placeholders (subset match)
//   - compile_error: the entry failed to compile with this error code
//   - row_count: rows returned (queries) or affected (statements) on SQLite
//   - final_state: a table row after every entry has run
//
// # Execution Order
//
// Setup statements run first and must succeed. Queries then compile and
// run in document order, followed by statements. Every scenario gets a
// fresh in-memory SQLite database built from the catalog.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/adults.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
