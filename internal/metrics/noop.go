package metrics

import "context"

// Noop discards all metrics.
type Noop struct{}

func (Noop) RecordOperation(context.Context, string, string, int64) {}
func (Noop) RecordError(context.Context, string, string)           {}
func (Noop) SetStorageCount(context.Context, string, int64)        {}
