package packaging

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"nugetctl/internal/history"
	"nugetctl/internal/logging"
	"nugetctl/internal/services"
)

const (
	commandPack      = "pack"
	commandPush      = "push"
	commandSetAPIKey = "setApiKey"

	defaultSource = "nuget.org"
)

// Runner executes NuGet commands. *nuget.Client satisfies it.
type Runner interface {
	Run(ctx context.Context, command string, args ...string) (int, error)
	RunSecret(ctx context.Context, command string, args ...string) (int, error)
}

// Recorder journals finished operations. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, run history.Run) error
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWorkDir sets where pack writes its artifact and push writes temp files.
// It must match the directory the Runner executes in.
func WithWorkDir(dir string) Option {
	return func(s *Service) {
		s.workDir = strings.TrimSpace(dir)
	}
}

// WithSource sets the push target.
func WithSource(source string) Option {
	return func(s *Service) {
		if source = strings.TrimSpace(source); source != "" {
			s.source = source
		}
	}
}

// WithRecorder journals every operation.
func WithRecorder(rec Recorder) Option {
	return func(s *Service) {
		s.recorder = rec
	}
}

// WithLockDir enables the per-work-dir pack lock, stored under dir.
func WithLockDir(dir string) Option {
	return func(s *Service) {
		s.lockDir = strings.TrimSpace(dir)
	}
}

// Service runs pack, push and setapikey.
type Service struct {
	runner   Runner
	logger   *slog.Logger
	workDir  string
	source   string
	recorder Recorder
	lockDir  string
	now      func() time.Time
}

// NewService builds a service around runner.
func NewService(runner Runner, opts ...Option) (*Service, error) {
	if runner == nil {
		return nil, errors.New("nuget runner required")
	}
	svc := &Service{
		runner: runner,
		logger: logging.NewNop(),
		source: defaultSource,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.workDir == "" {
		svc.workDir = "."
	}
	svc.logger = logging.NewComponentLogger(svc.logger, "packaging")
	return svc, nil
}

// WorkDir returns the directory pack output and temp files live in.
func (s *Service) WorkDir() string {
	return s.workDir
}

// operation tracks one public call from start to journal entry.
type operation struct {
	svc     *Service
	ctx     context.Context
	logger  *slog.Logger
	run     history.Run
	started time.Time
}

func (s *Service) begin(ctx context.Context, name, input string) *operation {
	if ctx == nil {
		ctx = context.Background()
	}
	id := uuid.NewString()
	ctx = services.WithOperation(ctx, name)
	ctx = services.WithRequestID(ctx, id)
	logger := logging.WithContext(ctx, s.logger)
	started := s.now()
	attrs := []logging.Attr{logging.String(logging.FieldEventType, "operation_start")}
	if input != "" {
		attrs = append(attrs, logging.String(logging.FieldInput, input))
	}
	logger.Info(name+" started", logging.Args(attrs...)...)
	return &operation{
		svc:     s,
		ctx:     ctx,
		logger:  logger,
		started: started,
		run: history.Run{
			ID:        id,
			Operation: name,
			Input:     input,
			StartedAt: started,
		},
	}
}

func (op *operation) finish(err error, artifact string) {
	finished := op.svc.now()
	op.run.FinishedAt = finished
	op.run.Artifact = artifact
	if err != nil {
		op.run.Status = history.StatusFailed
		op.run.ErrorKind = services.Kind(err)
		op.run.Error = err.Error()
		op.logger.Error(op.run.Operation+" failed",
			logging.String(logging.FieldEventType, "operation_failure"),
			logging.String("error_kind", op.run.ErrorKind),
			logging.Error(err),
		)
	} else {
		op.run.Status = history.StatusSucceeded
		attrs := []logging.Attr{
			logging.String(logging.FieldEventType, "operation_complete"),
			logging.Duration("elapsed", finished.Sub(op.started)),
		}
		if artifact != "" {
			attrs = append(attrs, logging.String("artifact", artifact))
		}
		op.logger.Info(op.run.Operation+" completed", logging.Args(attrs...)...)
	}

	if op.svc.recorder == nil {
		return
	}
	if recErr := op.svc.recorder.Record(context.WithoutCancel(op.ctx), op.run); recErr != nil {
		op.logger.Warn("history record failed", logging.Error(recErr))
	}
}
