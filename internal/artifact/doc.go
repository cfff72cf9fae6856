// Package artifact turns operation inputs into concrete files.
//
// An input is either a path (literal or doublestar glob) or an already-open
// byte stream that may carry an associated path. Resolve narrows a path input
// to exactly one regular file; Materialize goes one step further and writes a
// pathless stream to an owned temporary file so an external command can read
// it. TempArtifact tracks that ownership and removes owned files at most once.
package artifact
