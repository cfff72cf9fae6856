package artifact

import (
	"io"
	"strings"
)

// Source is either a filesystem path (possibly a glob) or an open stream.
// Build one with PathSource or StreamSource.
type Source struct {
	path   string
	stream io.Reader
}

// PathSource wraps a literal path or glob pattern.
func PathSource(path string) Source {
	return Source{path: strings.TrimSpace(path)}
}

// StreamSource wraps an open stream. path is optional and names the file the
// stream was read from, if any.
func StreamSource(r io.Reader, path string) Source {
	return Source{path: strings.TrimSpace(path), stream: r}
}

// IsStream reports whether the source carries an open stream.
func (s Source) IsStream() bool {
	return s.stream != nil
}

// Path returns the pattern for path sources or the associated path for
// stream sources.
func (s Source) Path() string {
	return s.path
}

// Stream returns the open stream, or nil for path sources.
func (s Source) Stream() io.Reader {
	return s.stream
}

func (s Source) String() string {
	switch {
	case s.stream != nil && s.path != "":
		return "stream:" + s.path
	case s.stream != nil:
		return "stream"
	default:
		return s.path
	}
}
