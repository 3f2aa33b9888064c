/*
Package reconcile is the engine that makes a target directory reflect a
selection of source files, tolerating a filesystem that fails intermittently.

	+-----------+     +-----------+     +-----------+
	|  Finder   | --> |  engine   | --> | Reporter  |
	| (glob)    |     | (per-file |     | (status)  |
	+-----------+     |  loop)    |     +-----------+
	                  +-----+-----+
	                        |
	            +-----------+-----------+
	            |           |           |
	      +-----+----+ +----+-----+ +---+------+
	      |  clean   | |  policy  | |  copy    |
	      | (target) | | (decide) | | (fsops)  |
	      +----------+ +----------+ +----------+

🎯 Purpose:
- Runs the per-file sequence: map, ensure directory, decide, copy
- Applies the overwrite policy against what actually occupies each destination
- Optionally empties the target before copying, keeping the directory itself
- Retries at two tiers: each primitive, and each file's whole sequence

🔄 Flow:
 1. The finder produces the sorted selection; an empty selection ends the run
    before anything on disk is touched
 2. When cleaning is configured the target's children are removed first, and
    every destination is afterwards known to be absent
 3. Each file maps to its destination, the decision table picks copy,
    overwrite or skip, and the copy truncates whatever is in the way
 4. The first file that fails past its retries stops the run; completed
    copies stay

⚡ Key Responsibilities:
  - Not-found is a state, never an error: an absent destination is the normal
    copy case and is never retried
  - A directory at a destination path is a permanent conflict
  - Read-only destinations are made writable before an overwrite
  - Timestamp preservation is best-effort and cannot fail a copied file

📝 Design Philosophy:
The engine assumes the filesystem can fail at any step and bounds every
access with the same retry budget. It keeps no state between runs: every run
re-observes the target, so a crashed or interrupted run is simply run again.
*/
package reconcile
