// Package harness runs logex conformance scenarios.
//
// A scenario is a small NDJSON input plus a query. The harness runs the
// extraction pipeline over it, records the run in an in-memory ledger, reads
// the result set back, and checks the outcome against the scenario's
// expectations and assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	input:
//	  - '{"a": 1, "b": 2}'
//	  - '{"a": 5, "b": 2}'
//	condition: a > 3
//	fields: [a, b]
//	lines: 10
//	expect:
//	  records:
//	    - '{"a": 5, "b": 2}'
//	  stats: { processed: 2, kept: 1, dropped: 1, unique: 1 }
//	assertions:
//	  - type: contains
//	    record: '{"a": 5, "b": 2}'
//
// # Assertion Types
//
//   - contains: the output holds the given record line
//   - excludes: the output does not hold the given record line
//   - count: the output has exactly N records
//   - order: the given records appear in this relative order
//   - all_match: every output record satisfies a condition
//
// # Golden Files
//
// RunWithGolden snapshots the outcome of a scenario in canonical JSON under
// testdata/golden/{name}.golden. To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
