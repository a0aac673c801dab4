// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the flamekit command tree: listing, inspecting, validating,
// converting, and merging fractal flame preset files, plus palette library export and
// import.
package cmd
