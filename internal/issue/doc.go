// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors for the flamekit CLI and a catalog of
// Markdown remediation pages, keyed by Id and rendered with glamour.
package issue
