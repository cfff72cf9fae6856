package packaging

import (
	"context"
	"log/slog"

	"nugetctl/internal/logging"
	"nugetctl/internal/services"
)

// Queue runs deferred stages one at a time in the order they were added.
// Each stage starts only after the previous one succeeded; the first error
// skips the remaining stages and is handed to the Await callback.
type Queue struct {
	logger *slog.Logger
	stages []queuedStage
}

type queuedStage struct {
	name string
	fn   func(context.Context) error
}

// NewQueue returns an empty stage queue.
func NewQueue(logger *slog.Logger) *Queue {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Queue{logger: logger}
}

// Defer appends a stage.
func (q *Queue) Defer(name string, fn func(context.Context) error) {
	q.stages = append(q.stages, queuedStage{name: name, fn: fn})
}

// Await runs the stages and then final, which always runs and receives the
// first stage error (or nil). Await returns whatever final returns.
func (q *Queue) Await(ctx context.Context, final func(error) error) error {
	err := q.run(ctx)
	if final == nil {
		return err
	}
	return final(err)
}

func (q *Queue) run(ctx context.Context) error {
	for _, st := range q.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		stageCtx := services.WithStage(ctx, st.name)
		logger := logging.WithContext(stageCtx, q.logger)
		logger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))
		if err := st.fn(stageCtx); err != nil {
			logger.Debug("stage failed",
				logging.String(logging.FieldEventType, "stage_failure"),
				logging.Error(err),
			)
			return err
		}
		logger.Debug("stage completed", logging.String(logging.FieldEventType, "stage_complete"))
	}
	return nil
}
