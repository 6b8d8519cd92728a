package metrics

import "expvar"

var (
	CollectRuns    = expvar.NewInt("collect_runs")
	CollectErrors  = expvar.NewInt("collect_errors")
	SnapshotSaves  = expvar.NewInt("snapshot_saves")
	SnapshotErrors = expvar.NewInt("snapshot_errors")
)
