// Package harness runs filter conformance scenarios.
//
// A scenario loads a CUE schema, seeds a fresh SQLite database and runs a
// list of filter cases through the full pipeline: parse, compile, render,
// query. Each case asserts on the rows it matched, the SQL it produced or
// the error the parser reported.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: blog_filters
//	description: "Relation and null semantics over a small blog"
//	schema: ../schema            # CUE model directory, relative to the file
//	setup:
//	  - model: User
//	    rows:
//	      - {id: 1, name: alice, age: 30}
//	cases:
//	  - name: adults
//	    model: User
//	    where: {age: {gte: 18}}
//	    order_by: ["name:desc"]
//	    expect:
//	      ids: [1]
//	  - name: bad_field
//	    model: User
//	    where: {nickname: x}
//	    expect:
//	      error: unknown field
//
// # Expectations
//
//   - ids: primary keys of the matched rows, in order
//   - sql: the exact rendered SELECT
//   - error: a substring of the parse error; the case must fail to parse
//
// # Golden Files
//
// Results serialize to canonical JSON for golden comparison, so a scenario
// pins down the SQL and parameters of every case as well as its rows.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/blog.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness
