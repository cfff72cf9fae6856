package packaging

import (
	"context"

	"nugetctl/internal/artifact"
	"nugetctl/internal/logging"
	"nugetctl/internal/services"
)

// Push uploads the package named by src. Stream inputs without a file on disk
// are copied to an owned temp file in the work directory, which is removed
// once the push finishes regardless of outcome. Path inputs are never deleted.
func (s *Service) Push(ctx context.Context, src artifact.Source) (err error) {
	op := s.begin(ctx, "push", src.String())
	var tmp *artifact.TempArtifact
	defer func() {
		name := ""
		if tmp != nil && !tmp.Owned {
			name = tmp.Path
		}
		op.finish(err, name)
	}()

	q := NewQueue(op.logger)
	q.Defer("materialize", func(ctx context.Context) error {
		var matErr error
		tmp, matErr = artifact.Materialize(ctx, src, s.workDir, ".nupkg")
		if matErr == nil {
			logging.WithContext(ctx, op.logger).Debug("package on disk",
				logging.String("path", tmp.Path),
				logging.Bool("owned", tmp.Owned),
			)
		}
		return matErr
	})
	q.Defer("push", func(ctx context.Context) error {
		code, runErr := s.runner.Run(ctx, commandPush, tmp.Path, "-Source", s.source, "-NonInteractive")
		if runErr != nil {
			return services.Wrap(services.ErrExternalTool, "push", commandPush, "run nuget", runErr)
		}
		if code != 0 {
			return &CommandError{Command: commandPush, Input: inputLabel(src.Path(), src), ExitCode: code}
		}
		return nil
	})

	return q.Await(op.ctx, func(stageErr error) error {
		if tmp.Cleanup() {
			op.logger.Debug("temp package removed", logging.String("path", tmp.Path))
		}
		return stageErr
	})
}
