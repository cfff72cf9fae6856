// Package config loads, normalizes, and validates nugetctl configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// NUGET_EXE and NUGET_API_KEY. The Config type centralizes every knob the CLI
// and the packaging operations need so the NuGet executable, runtime shim,
// push source, and working directory are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
