// Package harness runs scripted address book sessions as conformance tests.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	format: text            # optional: text, json, yaml or table
//	driver: sqlite3         # optional: sqlite3 or sqlite
//	commands:
//	  - add Alice Smith alice@example.com 555-0100
//	  - list
//	expect:
//	  - "Record #1 added."
//	assertions:
//	  - type: record_count
//	    count: 1
//	  - type: record_exists
//	    record: { first_name: Alice, last_name: Smith, email: alice@example.com, telephone: 555-0100 }
//
// # Assertion Types
//
//   - transcript_order: Verifies lines appear in the transcript in order
//   - record_count: Verifies the final number of rows
//   - record_exists: Verifies a row with the given fields remains
//   - record_absent: Verifies no row has the given fields
//
// Every expect entry must occur somewhere in the transcript.
//
// # Transcripts
//
// Commands run through the same shell the CLI uses, with each command echoed
// after the prompt, against a fresh in-memory database. Ids therefore start at
// 1 and transcripts are deterministic, which makes them suitable for golden
// file comparison with RunWithGolden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/crud_basics.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
