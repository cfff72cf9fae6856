package packaging

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"nugetctl/internal/artifact"
	"nugetctl/internal/logging"
	"nugetctl/internal/nuspec"
	"nugetctl/internal/services"
)

const lockRetryDelay = 100 * time.Millisecond

// Pack builds the package described by src and returns the produced .nupkg
// with its bytes buffered in Contents. The file is removed from the work
// directory before Pack returns, so Path names where it was produced rather
// than where it lives.
//
// A descriptor with no file on disk (a stream without an existing associated
// path) is written to an owned temp .nuspec for the duration of the call.
func (s *Service) Pack(ctx context.Context, src artifact.Source) (result *artifact.FileRef, err error) {
	op := s.begin(ctx, "pack", src.String())
	defer func() {
		name := ""
		if result != nil {
			name = result.Name()
		}
		op.finish(err, name)
	}()
	ctx = op.ctx

	unlock, err := s.lockWorkDir(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	input, err := artifact.Resolve(src)
	if err != nil {
		return nil, err
	}
	data, err := input.ReadAll()
	if err != nil {
		return nil, err
	}

	descPath := input.Path
	onDisk := isRegularFile(descPath)
	baseDir := s.workDir
	if descPath != "" && isDir(filepath.Dir(descPath)) {
		baseDir = filepath.Dir(descPath)
	}
	inspectPath := descPath
	if inspectPath == "" {
		inspectPath = filepath.Join(baseDir, "package.nuspec")
	}

	desc, err := nuspec.Inspect(data, inspectPath)
	if err != nil {
		return nil, err
	}
	op.logger.Info("descriptor inspected",
		logging.String("package_id", desc.ID),
		logging.String("package_version", desc.Version),
		logging.Int("declared_files", len(desc.DeclaredFiles)),
	)

	if !onDisk {
		tmp, matErr := artifact.Materialize(ctx, artifact.StreamSource(bytes.NewReader(data), ""), baseDir, ".nuspec")
		defer func() {
			if tmp.Cleanup() {
				op.logger.Debug("temp descriptor removed", logging.String("path", tmp.Path))
			}
		}()
		if matErr != nil {
			return nil, matErr
		}
		descPath = tmp.Path
	}

	code, err := s.runner.Run(ctx, commandPack, descPath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "pack", commandPack, "run nuget", err)
	}
	if code != 0 {
		return nil, &CommandError{Command: commandPack, Input: inputLabel(input.Path, src), ExitCode: code}
	}

	produced := filepath.Join(s.workDir, desc.ArtifactName())
	pkg, err := artifact.Resolve(artifact.PathSource(produced))
	if err != nil {
		return nil, err
	}
	if _, err := pkg.ReadAll(); err != nil {
		return nil, err
	}
	if rmErr := os.Remove(pkg.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		op.logger.Debug("remove produced package failed", logging.String("path", pkg.Path), logging.Error(rmErr))
	}
	return pkg, nil
}

// lockWorkDir serializes packs that share a work directory, since they would
// otherwise race on the produced artifact name.
func (s *Service) lockWorkDir(ctx context.Context) (func(), error) {
	if s.lockDir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(s.lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	abs, err := filepath.Abs(s.workDir)
	if err != nil {
		abs = s.workDir
	}
	sum := sha1.Sum([]byte(abs)) //nolint:gosec
	lock := flock.New(filepath.Join(s.lockDir, "pack-"+hex.EncodeToString(sum[:])+".lock"))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire pack lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire pack lock: %s is busy", abs)
	}
	return func() { _ = lock.Unlock() }, nil
}

func inputLabel(resolved string, src artifact.Source) string {
	if resolved != "" {
		return resolved
	}
	if p := src.Path(); p != "" {
		return p
	}
	return src.String()
}

func isRegularFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
