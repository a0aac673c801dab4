// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// These benchmarks cover the hot paths of flamekit:
//   - flame XML parsing and the names-only listing path
//   - flame XML writing in both naming dialects
//   - palette hex decoding and resampling
//   - CUE configuration loading
//
// To generate a PGO profile, run:
//
//	go test -run=^$ -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
