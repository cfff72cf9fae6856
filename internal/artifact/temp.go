package artifact

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

var nameCounter atomic.Uint64

// RandomFilename returns a 40-character hex name derived from the current time
// and a process-wide counter.
func RandomFilename() string {
	h := sha1.New() //nolint:gosec
	h.Write([]byte(strconv.FormatInt(time.Now().UnixNano(), 10)))
	h.Write([]byte(strconv.FormatUint(nameCounter.Add(1), 10)))
	return hex.EncodeToString(h.Sum(nil))
}

// TempArtifact is a file handed to an external command. Owned files were
// created by this process and are removed by Cleanup; borrowed files never are.
type TempArtifact struct {
	Path  string
	Owned bool

	once    sync.Once
	removed bool
}

// Cleanup removes an owned file if it still exists. Only the first call acts;
// every call reports whether that removal happened. Removal errors are swallowed.
func (t *TempArtifact) Cleanup() bool {
	if t == nil || t.Path == "" || !t.Owned {
		return false
	}
	t.once.Do(func() {
		if _, err := os.Stat(t.Path); err != nil {
			return
		}
		t.removed = os.Remove(t.Path) == nil
	})
	return t.removed
}

// Materialize makes src available as a file on disk. Path sources are resolved
// and borrowed. Stream sources reuse their associated path when a file exists
// there; otherwise the stream is copied into dir under a random name with the
// given extension and the file is owned.
//
// The returned TempArtifact is non-nil whenever a file may have been created,
// including on error, so callers can always defer Cleanup.
func Materialize(ctx context.Context, src Source, dir, ext string) (*TempArtifact, error) {
	if !src.IsStream() {
		ref, err := Resolve(src)
		if err != nil {
			return nil, err
		}
		return &TempArtifact{Path: ref.Path}, nil
	}

	if p := src.Path(); p != "" {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return &TempArtifact{Path: absPath(p)}, nil
		}
	}

	if dir == "" {
		dir = "."
	}
	tmp := &TempArtifact{Path: absPath(filepath.Join(dir, RandomFilename()+ext)), Owned: true}
	file, err := os.OpenFile(tmp.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return tmp, fmt.Errorf("create %s: %w", tmp.Path, err)
	}

	done := NewOnce()
	go func() {
		_, copyErr := io.Copy(file, contextReader{ctx: ctx, r: src.Stream()})
		if copyErr != nil {
			done.Complete(fmt.Errorf("write %s: %w", tmp.Path, copyErr))
		}
		closeErr := file.Close()
		if closeErr != nil {
			done.Complete(fmt.Errorf("close %s: %w", tmp.Path, closeErr))
		}
		done.Complete(nil)
	}()
	if err := done.Wait(ctx); err != nil {
		return tmp, err
	}
	return tmp, nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	if c.r == nil {
		return 0, errors.New("nil stream")
	}
	return c.r.Read(p)
}
