/*
Package operation wires the pipeline packages into executable runs.

	+-----------+   +----------+   +--------+   +-------+
	| discover  |-->| snapshot |-->| engine |-->| write |
	+-----------+   +----------+   +--------+   +-------+
	                                    |
	                      +-------------+------------+
	                      |                          |
	                +-----+-----+             +------+-----+
	                |  record   |             |  rollback  |
	                | + report  |             |  script    |
	                +-----------+             +------------+

🎯 Purpose:
- MigrateOperation: the full safe-mutation pipeline for one phase
- ScanOperation: the same transform pass with all writes disabled
- Runner: strictly sequential execution, first error stops the run

🔄 Per-file state machine:

	UNTOUCHED → SNAPSHOTTED → UNTOUCHED-EFFECTIVELY (no rule fired)
	                        → MUTATED-WRITTEN       (≥1 rule fired)

No transition ever returns a file to UNTOUCHED within a run, and no
write happens without its snapshot already on disk.

📝 Design Philosophy:
One file is fully processed before the next is considered. The dominant
cost is local filesystem I/O over at most a few hundred files, so there
is nothing to win from parallelism and a lot of reversal safety to lose.
Errors are never retried: correctness favors stopping over guessing, and
the operator holds a generated rollback script for anything already
written.
*/
package operation
