package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"nugetctl/internal/config"
	"nugetctl/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	logPath    string
}

// stubNuGet mimics the commands nugetctl issues. It lives in <base>/bin and
// logs every invocation to <base>/calls.log. Pack writes Demo.1.0.0.nupkg
// into its working directory and push copies its input to pushed.bin.
const stubNuGet = `base="$(dirname "$(dirname "$0")")"
echo "$@" >> "$base/calls.log"
case "$1" in
  setApiKey)
    printf '%s' "$2" > "$base/apikey.txt"
    ;;
  pack)
    [ -f "$base/fail-pack" ] && exit 1
    printf 'nupkg-bytes' > Demo.1.0.0.nupkg
    ;;
  push)
    [ -f "$base/fail-push" ] && exit 1
    cp "$2" "$base/pushed.bin"
    ;;
esac
exit 0
`

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub NuGet requires /bin/sh")
	}

	t.Setenv("HOME", t.TempDir())
	t.Setenv("NUGET_API_KEY", "")
	t.Setenv("NUGET_EXE", "")

	opts = append([]testsupport.ConfigOption{testsupport.WithNuGetScript(stubNuGet)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	env := &cliTestEnv{
		cfg:        cfg,
		configPath: filepath.Join(base, "config.toml"),
		baseDir:    base,
		logPath:    filepath.Join(base, "nugetctl.log"),
	}
	writeTestConfig(t, env.configPath, cfg, env.logPath)
	return env
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config, logPath string) {
	t.Helper()
	content := fmt.Sprintf(`[nuget]
executable = %q
runtime_shim = %q
source = %q
api_key = %q

[paths]
work_dir = %q
state_dir = %q

[logging]
level = "error"
file = %q

[history]
enabled = %t
`,
		cfg.NuGet.Executable,
		cfg.NuGet.RuntimeShim,
		cfg.NuGet.Source,
		cfg.NuGet.APIKey,
		cfg.Paths.WorkDir,
		cfg.Paths.StateDir,
		logPath,
		cfg.History.Enabled,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
