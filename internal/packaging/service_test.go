package packaging_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"nugetctl/internal/artifact"
	"nugetctl/internal/history"
	"nugetctl/internal/nuspec"
	"nugetctl/internal/packaging"
	"nugetctl/internal/services"
)

type call struct {
	command string
	args    []string
	secret  bool
	// seen records the first argument's file contents at call time.
	seen   []byte
	exists bool
}

type stubRunner struct {
	mu       sync.Mutex
	workDir  string
	produce  map[string][]byte
	exitCode int
	err      error
	calls    []call
}

func (s *stubRunner) Run(ctx context.Context, command string, args ...string) (int, error) {
	return s.record(command, args, false)
}

func (s *stubRunner) RunSecret(ctx context.Context, command string, args ...string) (int, error) {
	return s.record(command, args, true)
}

func (s *stubRunner) record(command string, args []string, secret bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := call{command: command, args: append([]string(nil), args...), secret: secret}
	if len(args) > 0 {
		if data, err := os.ReadFile(args[0]); err == nil {
			c.seen = data
			c.exists = true
		}
	}
	s.calls = append(s.calls, c)
	if s.err != nil || s.exitCode != 0 {
		return s.exitCode, s.err
	}
	for name, body := range s.produce {
		if err := os.WriteFile(filepath.Join(s.workDir, name), body, 0o644); err != nil {
			return -1, err
		}
	}
	return 0, nil
}

type memRecorder struct {
	mu   sync.Mutex
	runs []history.Run
	err  error
}

func (m *memRecorder) Record(_ context.Context, run history.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return m.err
}

func newService(t *testing.T, runner *stubRunner, opts ...packaging.Option) *packaging.Service {
	t.Helper()
	if runner.workDir == "" {
		runner.workDir = t.TempDir()
	}
	opts = append([]packaging.Option{packaging.WithWorkDir(runner.workDir)}, opts...)
	svc, err := packaging.NewService(runner, opts...)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func descriptor(id, version string, files ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><package><metadata><id>` + id + `</id><version>` + version + `</version></metadata><files>`)
	for _, f := range files {
		b.WriteString(`<file src="` + f + `" target="lib"/>`)
	}
	b.WriteString(`</files></package>`)
	return b.String()
}

func TestNewServiceRequiresRunner(t *testing.T) {
	if _, err := packaging.NewService(nil); err == nil {
		t.Fatal("expected error for nil runner")
	}
}

func TestPackProducesArtifactAndRemovesIt(t *testing.T) {
	src := t.TempDir()
	nuspecPath := filepath.Join(src, "pkg.nuspec")
	writeFile(t, nuspecPath, descriptor("Foo", "1.2.3", "lib.dll"))
	writeFile(t, filepath.Join(src, "lib.dll"), "binary")

	runner := &stubRunner{produce: map[string][]byte{"Foo.1.2.3.nupkg": []byte("PK-zip")}}
	rec := &memRecorder{}
	svc := newService(t, runner, packaging.WithRecorder(rec), packaging.WithLockDir(filepath.Join(t.TempDir(), "locks")))

	ref, err := svc.Pack(context.Background(), artifact.PathSource(nuspecPath))
	if err != nil {
		t.Fatalf("Pack returned error: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0].command != "pack" || runner.calls[0].args[0] != nuspecPath {
		t.Fatalf("unexpected calls %#v", runner.calls)
	}
	wantPath := filepath.Join(runner.workDir, "Foo.1.2.3.nupkg")
	if ref.Path != wantPath {
		t.Fatalf("expected artifact path %q, got %q", wantPath, ref.Path)
	}
	if string(ref.Contents) != "PK-zip" {
		t.Fatalf("unexpected artifact contents %q", ref.Contents)
	}
	if _, err := os.Stat(wantPath); !os.IsNotExist(err) {
		t.Fatalf("expected produced package removed, stat err %v", err)
	}
	if _, err := os.Stat(nuspecPath); err != nil {
		t.Fatalf("descriptor must not be touched: %v", err)
	}

	if len(rec.runs) != 1 {
		t.Fatalf("expected one journal entry, got %d", len(rec.runs))
	}
	run := rec.runs[0]
	if run.Operation != "pack" || run.Status != history.StatusSucceeded || run.Artifact != "Foo.1.2.3.nupkg" || run.ID == "" {
		t.Fatalf("unexpected journal entry %#v", run)
	}
}

func TestPackMissingDeclaredFilesSkipsSubprocess(t *testing.T) {
	src := t.TempDir()
	nuspecPath := filepath.Join(src, "pkg.nuspec")
	writeFile(t, nuspecPath, descriptor("Foo", "1.2.3", "missing.dll"))

	runner := &stubRunner{}
	rec := &memRecorder{}
	svc := newService(t, runner, packaging.WithRecorder(rec))

	_, err := svc.Pack(context.Background(), artifact.PathSource(nuspecPath))
	var missing *nuspec.MissingFilesError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFilesError, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing.dll") {
		t.Fatalf("expected error to name missing.dll, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no subprocess, got %#v", runner.calls)
	}
	if rec.runs[0].Status != history.StatusFailed || rec.runs[0].ErrorKind != "validation" {
		t.Fatalf("unexpected journal entry %#v", rec.runs[0])
	}
}

func TestPackResolutionErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.nuspec"), descriptor("A", "1.0.0"))
	writeFile(t, filepath.Join(dir, "b.nuspec"), descriptor("B", "1.0.0"))

	runner := &stubRunner{}
	svc := newService(t, runner)

	_, err := svc.Pack(context.Background(), artifact.PathSource(filepath.Join(dir, "*.nuspec")))
	var resErr *artifact.ResolutionError
	if !errors.As(err, &resErr) || resErr.Count != 2 {
		t.Fatalf("expected ambiguous ResolutionError, got %v", err)
	}
	_, err = svc.Pack(context.Background(), artifact.PathSource(filepath.Join(dir, "*.txt")))
	if !errors.As(err, &resErr) || resErr.Count != 0 {
		t.Fatalf("expected empty ResolutionError, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no subprocess, got %#v", runner.calls)
	}
}

func TestPackNonZeroExit(t *testing.T) {
	src := t.TempDir()
	nuspecPath := filepath.Join(src, "pkg.nuspec")
	writeFile(t, nuspecPath, descriptor("Foo", "1.2.3"))

	svc := newService(t, &stubRunner{exitCode: 1})
	_, err := svc.Pack(context.Background(), artifact.PathSource(nuspecPath))
	if !errors.Is(err, packaging.ErrPackFailed) || !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected pack failure, got %v", err)
	}
	var cmdErr *packaging.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Input != nuspecPath || cmdErr.ExitCode != 1 {
		t.Fatalf("unexpected command error %#v", cmdErr)
	}
}

func TestPackMissingProducedArtifact(t *testing.T) {
	src := t.TempDir()
	nuspecPath := filepath.Join(src, "pkg.nuspec")
	writeFile(t, nuspecPath, descriptor("Foo", "1.2.3"))

	svc := newService(t, &stubRunner{})
	_, err := svc.Pack(context.Background(), artifact.PathSource(nuspecPath))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for missing artifact, got %v", err)
	}
}

func TestPackStreamWithPathUsesFileOnDisk(t *testing.T) {
	src := t.TempDir()
	nuspecPath := filepath.Join(src, "pkg.nuspec")
	body := descriptor("Bar", "0.1.0", "lib.dll")
	writeFile(t, nuspecPath, body)
	writeFile(t, filepath.Join(src, "lib.dll"), "x")

	runner := &stubRunner{produce: map[string][]byte{"Bar.0.1.0.nupkg": []byte("zip")}}
	svc := newService(t, runner)
	stream := strings.NewReader(body)

	ref, err := svc.Pack(context.Background(), artifact.StreamSource(stream, nuspecPath))
	if err != nil {
		t.Fatalf("Pack returned error: %v", err)
	}
	if runner.calls[0].args[0] != nuspecPath {
		t.Fatalf("expected pack of %q, got %q", nuspecPath, runner.calls[0].args[0])
	}
	if stream.Len() != 0 {
		t.Fatal("expected stream drained before inspection")
	}
	if ref.Name() != "Bar.0.1.0.nupkg" {
		t.Fatalf("unexpected artifact %q", ref.Name())
	}
}

func TestPackPathlessStreamUsesOwnedTempDescriptor(t *testing.T) {
	runner := &stubRunner{produce: map[string][]byte{"Baz.2.0.0.nupkg": []byte("zip")}}
	svc := newService(t, runner)
	body := descriptor("Baz", "2.0.0")

	if _, err := svc.Pack(context.Background(), artifact.StreamSource(bytes.NewBufferString(body), "")); err != nil {
		t.Fatalf("Pack returned error: %v", err)
	}
	c := runner.calls[0]
	if !c.exists || string(c.seen) != body {
		t.Fatalf("expected temp descriptor with stream contents, got exists=%v %q", c.exists, c.seen)
	}
	if filepath.Dir(c.args[0]) != runner.workDir || filepath.Ext(c.args[0]) != ".nuspec" {
		t.Fatalf("unexpected temp descriptor %q", c.args[0])
	}
	if _, err := os.Stat(c.args[0]); !os.IsNotExist(err) {
		t.Fatalf("expected temp descriptor removed, stat err %v", err)
	}
}

func TestPushExistingPathIsNotDeleted(t *testing.T) {
	pkgDir := t.TempDir()
	pkg := filepath.Join(pkgDir, "Foo.1.2.3.nupkg")
	writeFile(t, pkg, "zip")

	runner := &stubRunner{}
	svc := newService(t, runner, packaging.WithSource("https://example.test/v3/index.json"))
	if err := svc.Push(context.Background(), artifact.PathSource(pkg)); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}

	want := []string{pkg, "-Source", "https://example.test/v3/index.json", "-NonInteractive"}
	got := runner.calls[0]
	if got.command != "push" || strings.Join(got.args, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected push call %#v", got)
	}
	if _, err := os.Stat(pkg); err != nil {
		t.Fatalf("path input must survive push: %v", err)
	}
	entries, _ := os.ReadDir(runner.workDir)
	if len(entries) != 0 {
		t.Fatalf("expected no temp files in work dir, found %d", len(entries))
	}
}

func TestPushExistingPathSurvivesFailure(t *testing.T) {
	pkg := filepath.Join(t.TempDir(), "Foo.1.2.3.nupkg")
	writeFile(t, pkg, "zip")

	svc := newService(t, &stubRunner{exitCode: 1})
	err := svc.Push(context.Background(), artifact.PathSource(pkg))
	if !errors.Is(err, packaging.ErrPushFailed) {
		t.Fatalf("expected push failure, got %v", err)
	}
	if _, statErr := os.Stat(pkg); statErr != nil {
		t.Fatalf("path input must survive failed push: %v", statErr)
	}
}

func TestPushStreamWritesAndRemovesTempFile(t *testing.T) {
	for _, exit := range []int{0, 1} {
		runner := &stubRunner{exitCode: exit}
		rec := &memRecorder{}
		svc := newService(t, runner, packaging.WithRecorder(rec))

		err := svc.Push(context.Background(), artifact.StreamSource(strings.NewReader("package-bytes"), ""))
		if exit == 0 && err != nil {
			t.Fatalf("Push returned error: %v", err)
		}
		if exit != 0 {
			var cmdErr *packaging.CommandError
			if !errors.As(err, &cmdErr) || cmdErr.Command != "push" {
				t.Fatalf("expected push CommandError, got %v", err)
			}
		}

		c := runner.calls[0]
		if !c.exists || string(c.seen) != "package-bytes" {
			t.Fatalf("expected stream fully written before push, got exists=%v %q", c.exists, c.seen)
		}
		name := strings.TrimSuffix(filepath.Base(c.args[0]), ".nupkg")
		if len(name) != 40 {
			t.Fatalf("expected random hex filename, got %q", c.args[0])
		}
		if _, err := os.Stat(c.args[0]); !os.IsNotExist(err) {
			t.Fatalf("expected temp file deleted after exit %d, stat err %v", exit, err)
		}
		if rec.runs[0].Artifact != "" {
			t.Fatalf("owned temp path must not be journaled, got %q", rec.runs[0].Artifact)
		}
	}
}

func TestPushStreamWithExistingPathIsBorrowed(t *testing.T) {
	pkg := filepath.Join(t.TempDir(), "Foo.1.2.3.nupkg")
	writeFile(t, pkg, "on-disk")

	runner := &stubRunner{}
	svc := newService(t, runner)
	if err := svc.Push(context.Background(), artifact.StreamSource(strings.NewReader("ignored"), pkg)); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}
	if runner.calls[0].args[0] != pkg || string(runner.calls[0].seen) != "on-disk" {
		t.Fatalf("expected existing file pushed, got %#v", runner.calls[0])
	}
	if _, err := os.Stat(pkg); err != nil {
		t.Fatalf("borrowed file must survive push: %v", err)
	}
}

func TestPushMaterializeFailureSkipsSubprocess(t *testing.T) {
	runner := &stubRunner{}
	svc := newService(t, runner)
	err := svc.Push(context.Background(), artifact.PathSource(filepath.Join(t.TempDir(), "absent.nupkg")))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no subprocess, got %#v", runner.calls)
	}
}

func TestPushRunnerErrorIsExternalTool(t *testing.T) {
	pkg := filepath.Join(t.TempDir(), "Foo.1.2.3.nupkg")
	writeFile(t, pkg, "zip")
	base := errors.New("exec: mono not found")

	svc := newService(t, &stubRunner{exitCode: -1, err: base})
	err := svc.Push(context.Background(), artifact.PathSource(pkg))
	if !errors.Is(err, base) || !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected wrapped runner error, got %v", err)
	}
}

func TestSetAPIKey(t *testing.T) {
	runner := &stubRunner{}
	rec := &memRecorder{}
	svc := newService(t, runner, packaging.WithRecorder(rec))
	if err := svc.SetAPIKey(context.Background(), "s3cret"); err != nil {
		t.Fatalf("SetAPIKey returned error: %v", err)
	}
	c := runner.calls[0]
	if c.command != "setApiKey" || len(c.args) != 1 || c.args[0] != "s3cret" || !c.secret {
		t.Fatalf("unexpected call %#v", c)
	}
	if rec.runs[0].Input != "" {
		t.Fatalf("key leaked into journal: %#v", rec.runs[0])
	}
}

func TestSetAPIKeyFailure(t *testing.T) {
	svc := newService(t, &stubRunner{exitCode: 1})
	err := svc.SetAPIKey(context.Background(), "s3cret")
	if !errors.Is(err, packaging.ErrSetAPIKey) {
		t.Fatalf("expected ErrSetAPIKey, got %v", err)
	}
	if strings.Contains(err.Error(), "s3cret") {
		t.Fatalf("key leaked into error: %v", err)
	}
}

func TestRecorderFailureIsNotSurfaced(t *testing.T) {
	svc := newService(t, &stubRunner{}, packaging.WithRecorder(&memRecorder{err: errors.New("disk full")}))
	if err := svc.SetAPIKey(context.Background(), "k"); err != nil {
		t.Fatalf("expected recorder error swallowed, got %v", err)
	}
}

func TestPackLockSerializesSameWorkDir(t *testing.T) {
	src := t.TempDir()
	nuspecPath := filepath.Join(src, "pkg.nuspec")
	writeFile(t, nuspecPath, descriptor("Foo", "1.0.0"))

	workDir := t.TempDir()
	lockDir := filepath.Join(t.TempDir(), "locks")
	runner := &stubRunner{workDir: workDir, produce: map[string][]byte{"Foo.1.0.0.nupkg": []byte("zip")}}
	svc := newService(t, runner, packaging.WithLockDir(lockDir))

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Pack(context.Background(), artifact.PathSource(nuspecPath))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent pack failed: %v", err)
		}
	}
	if len(runner.calls) != 4 {
		t.Fatalf("expected 4 pack calls, got %d", len(runner.calls))
	}
}
