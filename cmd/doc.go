// Package cmd implements the command-line interface of inplace. It provides
// commands to create, validate, inspect and edit buffers in the in-arena
// encoding, to generate typed Go views from type definitions and to
// benchmark the serializers.
//
// The package is organized into several subpackages:
//
//   - buf: Commands working on buffer files (imprint, inspect, set, size, check, defs)
//   - gen: Code generation for named definitions
//   - perf: Serializer benchmarks with CSV and Prometheus export
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See inplace -help for a list of all commands.
package cmd
