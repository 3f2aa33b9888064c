/*
Package config manages configuration parsing and validation for copytree.

	              +-------------+
	              |   Config    |
	              | (Settings)  |
	              +------+------+
	                     |
	      +--------------+--------------+
	      |              |              |
	+-----+-----+  +-----+-----+  +-----+-----+
	|   YAML    |  |   JSON    |  |    HCL    |
	|  Parser   |  |  Parser   |  |  Parser   |
	+-----------+  +-----------+  +-----------+

🎯 Purpose:
- Loads and parses run configuration from disk
- Validates values and applies defaults
- Normalizes paths and clamps retry knobs
- Supports multiple config formats behind one interface

🔄 Flow:
1. Reads configuration from file
2. Picks a parser by file extension (a .copytree file is tried as YAML, then HCL)
3. Parses format-specific syntax, rejecting unknown fields
4. Validates and hands the result to the engine

⚡ Key Responsibilities:
- Required-field checks (source, target)
- Defaulting the selection to everything ("**")
- Keeping retry_count and retry_delay_ms non-negative
- Format abstraction via the Parser registry

📝 Design Philosophy:
The config package is the source of truth for what a run will do. Anything
that can be decided before touching the filesystem is decided here, so the
engine only ever sees a configuration that is already coherent.

🔍 Example:

	cfg, err := config.Load(ctx, "copytree.yaml")
	if err != nil {
		return err
	}

	fmt.Println(cfg.String()) // "./src -> ./dst (hierarchy)"
*/
package config
