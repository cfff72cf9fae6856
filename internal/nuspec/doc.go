// Package nuspec reads the parts of a package descriptor the pack pipeline
// needs: the package id and version, and the files the descriptor declares.
package nuspec
