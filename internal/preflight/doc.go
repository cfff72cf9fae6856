// Package preflight provides readiness checks for the NuGet executable, its
// runtime shim, and the directories nugetctl writes to.
//
// `nugetctl doctor` renders the results as a table. Optional checks report
// conditions that only affect some commands and never fail the run.
package preflight
