package nuget

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"nugetctl/internal/logging"
)

// Executor abstracts command execution for testability. Run returns the
// process exit code; err is reserved for failures to start or wait.
type Executor interface {
	Run(ctx context.Context, dir string, argv []string, onOutput func(string)) (int, error)
}

// Invocation is one immutable call against the executable.
type Invocation struct {
	Prefix     []string
	Executable string
	Command    string
	Args       []string
}

// Argv returns the full argument vector: [prefix...] executable command args...
func (i Invocation) Argv() []string {
	argv := make([]string, 0, len(i.Prefix)+2+len(i.Args))
	argv = append(argv, i.Prefix...)
	argv = append(argv, i.Executable, i.Command)
	return append(argv, i.Args...)
}

// String renders the invocation for logs. Arguments are shown verbatim, so
// callers must not log invocations that carry secrets.
func (i Invocation) String() string {
	return strings.Join(i.Argv(), " ")
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithRuntimeShim sets the launcher prepended on non-Windows platforms.
func WithRuntimeShim(shim string) Option {
	return func(c *Client) {
		c.shim = strings.TrimSpace(shim)
	}
}

// WithWorkDir runs subprocesses in dir instead of the inherited working directory.
func WithWorkDir(dir string) Option {
	return func(c *Client) {
		c.dir = strings.TrimSpace(dir)
	}
}

// WithTimeout bounds each invocation. Zero means wait indefinitely.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger routes subprocess output and invocation logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPlatform overrides the detected GOOS when deciding whether to apply the
// runtime shim.
func WithPlatform(goos string) Option {
	return func(c *Client) {
		c.goos = goos
	}
}

// Client wraps NuGet CLI interactions.
type Client struct {
	executable string
	shim       string
	dir        string
	goos       string
	timeout    time.Duration
	exec       Executor
	logger     *slog.Logger
}

// New constructs a NuGet client for the executable at the given path.
func New(executable string, opts ...Option) (*Client, error) {
	executable = strings.TrimSpace(executable)
	if executable == "" {
		return nil, errors.New("nuget executable required")
	}
	client := &Client{
		executable: executable,
		goos:       runtime.GOOS,
		exec:       commandExecutor{},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "nuget")
	return client, nil
}

// Executable returns the configured executable path.
func (c *Client) Executable() string {
	return c.executable
}

// RuntimeShim returns the launcher applied on this platform, or "" when the
// executable runs natively.
func (c *Client) RuntimeShim() string {
	if c.goos == "windows" {
		return ""
	}
	return c.shim
}

// WorkDir returns the directory subprocesses run in ("" means inherited).
func (c *Client) WorkDir() string {
	return c.dir
}

// Invocation builds the argument vector for command.
func (c *Client) Invocation(command string, args ...string) Invocation {
	inv := Invocation{
		Executable: c.executable,
		Command:    command,
		Args:       append([]string(nil), args...),
	}
	if shim := c.RuntimeShim(); shim != "" {
		inv.Prefix = strings.Fields(shim)
	}
	return inv
}

// Run executes command with args and blocks until the process exits. A
// nonzero exit code is returned without an error.
func (c *Client) Run(ctx context.Context, command string, args ...string) (int, error) {
	return c.run(ctx, c.Invocation(command, args...), true)
}

// RunSecret behaves like Run but keeps args out of the logs.
func (c *Client) RunSecret(ctx context.Context, command string, args ...string) (int, error) {
	return c.run(ctx, c.Invocation(command, args...), false)
}

func (c *Client) run(ctx context.Context, inv Invocation, logArgs bool) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	logger := logging.WithContext(ctx, c.logger)
	attrs := []logging.Attr{logging.String("command", inv.Command)}
	if logArgs {
		attrs = append(attrs, logging.String("argv", inv.String()))
	}
	logger.Debug("nuget invocation started", logging.Args(attrs...)...)

	started := time.Now()
	code, err := c.exec.Run(ctx, c.dir, inv.Argv(), func(line string) {
		if line = strings.TrimSpace(line); line != "" {
			logger.Info(line, logging.String("command", inv.Command))
		}
	})
	if err != nil {
		return code, fmt.Errorf("nuget %s: %w", inv.Command, err)
	}

	logger.Debug("nuget invocation finished",
		logging.String("command", inv.Command),
		logging.Int("exit_code", code),
		logging.Duration("elapsed", time.Since(started)),
	)
	return code, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, dir string, argv []string, onOutput func(string)) (int, error) {
	if len(argv) == 0 {
		return -1, errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec
	cmd.Dir = dir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	forward := func(line string) {
		if onOutput == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		onOutput(line)
	}
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		// Drain whatever is left so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, r)
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	err = cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return exitErr.ExitCode(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, fmt.Errorf("wait command: %w", ctxErr)
	}
	return -1, fmt.Errorf("wait command: %w", err)
}

// Available reports whether the executable exists and the runtime shim, when
// one applies, resolves on PATH.
func (c *Client) Available() bool {
	if info, err := os.Stat(c.executable); err != nil || info.IsDir() {
		return false
	}
	if shim := strings.Fields(c.RuntimeShim()); len(shim) > 0 {
		if _, err := exec.LookPath(shim[0]); err != nil {
			return false
		}
	}
	return true
}
