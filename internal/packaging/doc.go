// Package packaging implements the pack, push and setapikey operations on top
// of the NuGet command runner.
//
// Pack resolves a descriptor, verifies its declared files, runs `pack`, then
// captures the produced .nupkg into memory and removes it from the work
// directory. Push runs three ordered stages through Queue: materialize the
// input on disk, run `push`, and clean up any temp file this process created.
// Every operation carries a correlation id in its context, logs through the
// shared slog pipeline, and is journaled when a Recorder is configured.
package packaging
