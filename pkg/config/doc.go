/*
Package config manages configuration parsing and validation for semshift.

	            +-------------+
	            |   Config    |
	            | (RunContext)|
	            +------+------+
	                   |
	      +-----------+-----------+
	      |           |           |
	+-----+-----+ +---+----+ +----+----+
	|   YAML    | |  JSON  | |   HCL   |
	| Parser    | | Parser | | Parser  |
	+-----------+ +--------+ +---------+

🎯 Purpose:
- Describes one migration phase as an explicit value
- Validates configuration values
- Fills in the defaults recovered from the original phase scripts
- Supports multiple config formats

🔄 Flow:
1. Reads configuration from file
2. Parses format-specific syntax
3. Validates configuration values
4. Applies defaults and hands the config to the operation layer

📝 Design Philosophy:
The config package is the source of truth for a run. Every path the
pipeline touches (repo root, search roots, backup root) comes from here
rather than from process-wide constants, so the whole pipeline can be
pointed at a temporary directory in tests.
*/
package config
