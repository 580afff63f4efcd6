package port

import (
	"context"
	"time"

	"balance_exporter/internal/domain/entity"
)

// Throttler pauses the caller between network queries.
type Throttler interface {
	Pause(ctx context.Context) error
}

// ReportWriter persists a finished result table.
type ReportWriter interface {
	Write(table *entity.ResultTable) error
}

// QueryRecorder observes the outcome of each balance query.
type QueryRecorder interface {
	ObserveQuery(network string, kind string, duration time.Duration, err error)
}
