/*
Package config manages configuration parsing and validation for potx.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +-----------+-----------+-----------+
	      |           |                       |
	+-----+-----+ +---+----+            +----+----+
	|   YAML    | |  JSON  |            |   HCL   |
	| Parser    | | Parser |            | Parser  |
	+-----------+ +--------+            +---------+

🎯 Purpose:
- Loads the extraction rule set, scan filters and merge thresholds
- Validates configuration values (fatal at startup)
- Provides the immutable Config handed into scan and merge

🔄 Flow:
1. Reads configuration from file (.potx.yaml / .potx.json / .potx.hcl)
2. Parses format-specific syntax
3. Applies command-line overrides (done by cmd/potx)
4. Validates and fills defaults

📝 Design Philosophy:
There is no process-wide mutable configuration. Everything the engine
needs (compiled patterns, encoding, worker count, fuzzy threshold)
flows from one Config built at startup, so two runs with the same file
set and config are deterministic regardless of concurrency.
*/
package config
