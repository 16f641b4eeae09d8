package recorder

import (
	"time"

	"TrendWatch/internal/model"
)

// SnapshotRecord is a stored analysis result together with its selection.
type SnapshotRecord struct {
	ReceivedAt time.Time
	Selection  model.Selection
	Snapshot   model.AnalysisSnapshot
}

// FailureEvent records a fetch that ended in an error status.
type FailureEvent struct {
	Selection model.Selection
	Message   string
}

// Recorder persists received snapshots and fetch failures for later analysis.
type Recorder interface {
	RecordSnapshot(sel model.Selection, snap *model.AnalysisSnapshot) error
	RecordFailure(evt *FailureEvent) error
	RecentSnapshots(limit int) ([]SnapshotRecord, error)
	Close() error
}
