/*
Package status reports what a copy run did, file by file and in aggregate.

	            +-------------+
	            |  Reporter   |
	            | (Interface) |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|  Console  |           | Silent  |
	| (UI/Logs) |           | (No-op) |
	+-----------+           +---------+

🎯 Purpose:
  - Names the four terminal outcomes a file can have (copied, overwritten,
    skipped, failed)
  - Streams per-file events while a run executes
  - Aggregates outcome counts into a run summary
  - Renders human output and structured logs from the same events

🔄 Flow:
1. The engine announces the run and its selection size
2. Every file ends in exactly one outcome, reported as it happens
3. The summary is delivered even when a run stops early

📝 Design Philosophy:
Reporting is pull-free: the engine pushes events and never asks the reporter
anything, so a reporter can be swapped for a silent one without changing run
behavior. The console reporter mirrors every event into zerolog, keeping
terminal output and captured logs consistent with each other.
*/
package status
