package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileRef names a resolved file. Stream is set while the file has not been
// drained; Contents holds the buffered bytes once it has.
type FileRef struct {
	Path     string
	Stream   io.Reader
	Contents []byte
}

// ReadAll buffers the file into Contents and returns it. A pending stream is
// drained and closed; otherwise Path is read from disk. Subsequent calls return
// the buffered bytes.
func (f *FileRef) ReadAll() ([]byte, error) {
	if f == nil {
		return nil, errors.New("nil file reference")
	}
	if f.Contents != nil {
		return f.Contents, nil
	}
	if f.Stream != nil {
		data, err := io.ReadAll(f.Stream)
		if closer, ok := f.Stream.(io.Closer); ok {
			if cerr := closer.Close(); err == nil && cerr != nil {
				err = cerr
			}
		}
		f.Stream = nil
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.label(), err)
		}
		f.Contents = data
		return data, nil
	}
	if f.Path == "" {
		return nil, errors.New("file reference has neither path nor stream")
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	f.Contents = data
	return data, nil
}

// Save writes the buffered contents into dir under the file's base name and
// returns the written path.
func (f *FileRef) Save(dir string) (string, error) {
	data, err := f.ReadAll()
	if err != nil {
		return "", err
	}
	if f.Path == "" {
		return "", errors.New("file reference has no name")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	target := filepath.Join(dir, filepath.Base(f.Path))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return target, nil
}

// Name returns the base name of Path.
func (f *FileRef) Name() string {
	if f == nil || f.Path == "" {
		return ""
	}
	return filepath.Base(f.Path)
}

func (f *FileRef) label() string {
	if f.Path != "" {
		return f.Path
	}
	return "stream"
}
