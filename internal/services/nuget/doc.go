// Package nuget mediates access to the NuGet command-line executable.
//
// It builds the argument vector (prefixing a runtime shim such as mono on
// platforms that cannot execute NuGet.exe natively), runs the subprocess in
// the configured working directory, forwards its output to the structured
// logger, and reports the exit status. A nonzero exit is returned as a value
// rather than an error so callers decide what a failure means for their
// operation.
//
// Prefer this package over ad-hoc exec.Command usage so invocation shape and
// logging remain consistent.
package nuget
