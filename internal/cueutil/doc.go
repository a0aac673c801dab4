// SPDX-License-Identifier: MPL-2.0

// Package cueutil compiles user CUE files against an embedded schema definition and
// decodes the unified value into Go values.
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[map[string]any](schema, data, "#Config",
//		cueutil.WithFilename("config.cue"), cueutil.WithConcrete(false))
package cueutil
