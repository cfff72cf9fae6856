package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CheckExecutable verifies that path names an existing regular file. NuGet.exe
// is run through a shim on most platforms, so it need not be executable itself.
func CheckExecutable(name, path string) Result {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a regular file)", path)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckBinary verifies that the first word of command resolves on PATH.
func CheckBinary(name, command string) Result {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Result{Name: name, Detail: "command not configured"}
	}
	resolved, err := exec.LookPath(fields[0])
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found", fields[0])}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkAccess(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckAPIKey reports whether a key is configured for setapikey. Push relies on
// whatever key NuGet already stores, so a missing one is not fatal.
func CheckAPIKey(key string) Result {
	const name = "API key"
	if strings.TrimSpace(key) == "" {
		return Result{Name: name, Optional: true, Detail: "not configured (set nuget.api_key or NUGET_API_KEY)"}
	}
	return Result{Name: name, Optional: true, Passed: true, Detail: "configured"}
}
