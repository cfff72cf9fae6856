package preflight

import (
	"context"
	"runtime"

	"nugetctl/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every check for cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	return runAll(ctx, cfg, runtime.GOOS)
}

func runAll(_ context.Context, cfg *config.Config, goos string) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckExecutable("NuGet executable", cfg.NuGet.Executable),
	}
	if goos != "windows" && cfg.NuGet.RuntimeShim != "" {
		results = append(results, CheckBinary("Runtime shim", cfg.NuGet.RuntimeShim))
	}
	results = append(results,
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckAPIKey(cfg.NuGet.APIKey),
	)
	return results
}

// Failed reports whether any required check did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}
