package recorder

import "TrendWatch/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSnapshot(_ model.Selection, _ *model.AnalysisSnapshot) error { return nil }
func (n *NoopRecorder) RecordFailure(_ *FailureEvent) error                               { return nil }
func (n *NoopRecorder) RecentSnapshots(_ int) ([]SnapshotRecord, error)                   { return nil, nil }
func (n *NoopRecorder) Close() error                                                      { return nil }
