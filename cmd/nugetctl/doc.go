// Package main hosts the nugetctl CLI entrypoint and command graph.
//
// The Cobra-based command tree maps terminal invocations onto the packaging
// service (setapikey, pack, push), the run journal (history), readiness
// checks (doctor), and configuration scaffolding. It centralizes config
// resolution, logger construction, and service wiring so subcommands stay
// small; behaviour belongs in the internal packages.
package main
