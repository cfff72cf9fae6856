package config

const (
	defaultRuntimeShim = "mono"
	defaultSource      = "nuget.org"
	defaultStateDir    = "~/.local/share/nugetctl"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultExecName    = "NuGet.exe"
)

// Default returns a Config populated with repository defaults. The executable
// path is left empty and resolved during normalization.
func Default() Config {
	return Config{
		NuGet: NuGet{
			RuntimeShim: defaultRuntimeShim,
			Source:      defaultSource,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
	}
}
