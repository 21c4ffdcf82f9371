// Package directive writes the line protocol the enclosing build pipeline
// reads from the orchestrator's stdout.
package directive

import (
	"fmt"
	"io"
)

// DefaultPrefix is understood by cargo build scripts.
const DefaultPrefix = "cargo:"

// Writer emits directives, one per line.
type Writer struct {
	w      io.Writer
	prefix string
}

// New returns a Writer with DefaultPrefix. A nil w discards output.
func New(w io.Writer) *Writer {
	return NewWithPrefix(w, DefaultPrefix)
}

func NewWithPrefix(w io.Writer, prefix string) *Writer {
	if w == nil {
		w = io.Discard
	}
	return &Writer{w: w, prefix: prefix}
}

// RerunIfChanged asks the pipeline to re-run the build when path changes.
func (d *Writer) RerunIfChanged(path string) error {
	return d.emit("rerun-if-changed", path)
}

// LinkSearch adds dir to the native library search path.
func (d *Writer) LinkSearch(dir string) error {
	return d.emit("rustc-link-search", "native="+dir)
}

// LinkLib links the static archive name.
func (d *Writer) LinkLib(name string) error {
	return d.emit("rustc-link-lib", "static="+name)
}

// Warning surfaces a message in the pipeline's output.
func (d *Writer) Warning(msg string) error {
	return d.emit("warning", msg)
}

func (d *Writer) emit(key, value string) error {
	_, err := fmt.Fprintf(d.w, "%s%s=%s\n", d.prefix, key, value)
	return err
}
