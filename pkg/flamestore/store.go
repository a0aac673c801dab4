// SPDX-License-Identifier: MPL-2.0

// Package flamestore loads, edits and saves flame preset files.
//
// It sits between the XML codec and its callers: files are read whole, parsed with
// flamexml, and their diagnostics logged; saves run the writer to completion before an
// atomic temp-file-and-rename replaces the target, so a failed duplicate check or a write
// error never leaves a truncated file behind.
package flamestore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flamekit/flamekit/pkg/diag"
	"github.com/flamekit/flamekit/pkg/flame"
	"github.com/flamekit/flamekit/pkg/flamexml"
)

// Ext is the conventional extension of flame preset files.
const Ext = ".flame"

// ErrNoSuchPreset is the sentinel error wrapped by NoSuchPresetError.
var ErrNoSuchPreset = errors.New("no such preset")

type (
	// Options configure loads and saves.
	Options struct {
		Parse flamexml.ParseOptions
		Write flamexml.WriteOptions
		// Logger receives load diagnostics. Nil uses slog.Default().
		Logger *slog.Logger
	}

	// FileError reports the file an operation failed on.
	FileError struct {
		Op   string
		Path string
		Err  error
	}

	// NoSuchPresetError is returned when a preset lookup by name or index fails.
	NoSuchPresetError struct {
		Name  string
		Index int
	}
)

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *NoSuchPresetError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("no preset named %q", e.Name)
	}
	return fmt.Sprintf("no preset at index %d", e.Index)
}

// Unwrap returns ErrNoSuchPreset for errors.Is() compatibility.
func (e *NoSuchPresetError) Unwrap() error { return ErrNoSuchPreset }

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Load reads and parses the flame file at path and logs its diagnostics.
func Load(path string, opts Options) (*flamexml.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Op: "read", Path: path, Err: err}
	}
	res, err := flamexml.Parse(data, opts.Parse)
	if err != nil {
		return nil, &FileError{Op: "parse", Path: path, Err: err}
	}
	logReport(opts.logger().With("file", path), res.Report)
	return res, nil
}

// LoadText parses flame XML held in memory, such as a clipboard paste.
func LoadText(text string, opts Options) (*flamexml.Result, error) {
	res, err := flamexml.Parse([]byte(text), opts.Parse)
	if err != nil {
		return nil, err
	}
	logReport(opts.logger(), res.Report)
	return res, nil
}

func logReport(logger *slog.Logger, report *diag.Report) {
	if report.Empty() {
		return
	}
	report.Log(logger)
}

// FirstPreset parses data and returns its first preset.
func FirstPreset(data []byte, opts Options) (flame.Preset, *diag.Report, error) {
	res, err := flamexml.Parse(data, opts.Parse)
	if err != nil {
		return flame.Preset{}, nil, err
	}
	return res.Document.Presets[0], res.Report, nil
}

// ListNames returns the raw preset names of data without decoding the presets.
func ListNames(data []byte) ([]string, error) {
	return flamexml.Names(data)
}

// ListFile reads path and lists its preset names.
func ListFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Op: "read", Path: path, Err: err}
	}
	names, err := ListNames(data)
	if err != nil {
		return nil, &FileError{Op: "list", Path: path, Err: err}
	}
	return names, nil
}

// Pretty re-indents flame XML. Pretty(Pretty(x)) == Pretty(x).
func Pretty(data []byte) ([]byte, error) {
	return flamexml.Indent(data)
}

// Index returns the position of the preset named name, or -1.
func Index(doc *flame.Document, name string) int {
	return doc.Index(name)
}

// Select returns the preset named name or, when name is empty, the one at index.
func Select(doc *flame.Document, name string, index int) (flame.Preset, error) {
	if name != "" {
		if p, ok := doc.Preset(name); ok {
			return *p, nil
		}
		return flame.Preset{}, &NoSuchPresetError{Name: name}
	}
	if index < 0 || index >= doc.Len() {
		return flame.Preset{}, &NoSuchPresetError{Index: index}
	}
	return doc.Presets[index], nil
}

// Append adds p at the end of doc.
func Append(doc *flame.Document, p flame.Preset) {
	doc.Presets = append(doc.Presets, p)
}

// ReplaceOrAppendByName replaces the first preset with p's name, or appends p. It reports
// whether a preset was replaced.
func ReplaceOrAppendByName(doc *flame.Document, p flame.Preset) bool {
	if i := doc.Index(p.Name); i >= 0 {
		doc.Presets[i] = p
		return true
	}
	Append(doc, p)
	return false
}

// Merge adds every preset of src to dst. With replace, presets whose name already exists
// in dst are overwritten in place. It returns how many presets were appended and replaced.
func Merge(dst, src *flame.Document, replace bool) (appended, replaced int) {
	for _, p := range src.Presets {
		if !replace {
			Append(dst, p.Clone())
			appended++
			continue
		}
		if ReplaceOrAppendByName(dst, p.Clone()) {
			replaced++
		} else {
			appended++
		}
	}
	return appended, replaced
}

// Save writes doc to path. Nothing is written when the document cannot be encoded; the
// target is replaced atomically otherwise.
func Save(path string, doc *flame.Document, opts Options) error {
	data, err := flamexml.Write(doc, opts.Write)
	if err != nil {
		return err
	}
	if err := atomicWriteFile(path, data); err != nil {
		return &FileError{Op: "write", Path: path, Err: err}
	}
	opts.logger().Debug("saved flame file", "file", path, "presets", doc.Len())
	return nil
}

// atomicWriteFile writes data next to path and renames it into place.
func atomicWriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Best-effort cleanup
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
