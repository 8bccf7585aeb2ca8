package decision

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/variantlab/expkit/pkg/condition"
)

// Fault is a structured evaluation defect surfaced during a decision: a
// condition literal with the wrong type or a malformed version string.
// Faults never alter control flow; the affected leaf evaluates Unknown.
type Fault struct {
	// ID correlates the report with caller-side handling and log lines.
	ID            string
	UserID        string
	ExperimentKey string
	AttributeName string
	Match         condition.MatchType
	Err           error
}

// Reporter receives faults. Implementations must be non-blocking and safe
// for concurrent use.
type Reporter interface {
	Report(ctx context.Context, fault Fault)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ctx context.Context, fault Fault)

func (f ReporterFunc) Report(ctx context.Context, fault Fault) { f(ctx, fault) }

// slogReporter is the default Reporter; it logs and nothing else.
type slogReporter struct {
	log *slog.Logger
}

func (r slogReporter) Report(_ context.Context, fault Fault) {
	r.log.Warn("evaluation fault",
		slog.String("report_id", fault.ID),
		slog.String("user_id", fault.UserID),
		slog.String("experiment_key", fault.ExperimentKey),
		slog.String("attribute", fault.AttributeName),
		slog.String("match", string(fault.Match)),
		slog.Any("error", fault.Err),
	)
}

// newFaultID stamps each report so retries and duplicate log lines can be
// told apart.
func newFaultID() string { return uuid.NewString() }
