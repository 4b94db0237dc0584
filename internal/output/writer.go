// Package output renders listings through a fixed-size, style-diffing
// buffer.
package output

import (
	"io"
	"strconv"

	"fls/internal/style"
)

// BufferSize is the capacity of the output buffer.
const BufferSize = 4096

// Writer buffers output and tracks the last emitted style so escape
// sequences are only written when the style actually changes.
type Writer struct {
	out   io.Writer
	buf   []byte
	style style.Style
	color bool
	err   error
}

// NewWriter returns a Writer on out. Styles are dropped unless color is set.
func NewWriter(out io.Writer, color bool) *Writer {
	return &Writer{
		out:   out,
		buf:   make([]byte, 0, BufferSize),
		style: style.Reset,
		color: color,
	}
}

// Color reports whether styles are emitted.
func (w *Writer) Color() bool {
	return w.color
}

// Style switches to s, writing an escape only if s differs from the
// current style.
func (w *Writer) Style(s style.Style) {
	if !w.color || s == w.style {
		return
	}
	var seq [16]byte
	w.Write(s.AppendTo(seq[:0]))
	w.style = s
}

// Write appends p, flushing whenever the buffer fills. It never returns
// a short count; write failures are kept for Err and Flush.
func (w *Writer) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		if len(w.buf) == cap(w.buf) {
			w.Flush()
		}
		c := copy(w.buf[len(w.buf):cap(w.buf)], p)
		w.buf = w.buf[:len(w.buf)+c]
		p = p[c:]
	}
	return n, nil
}

// WriteString appends s.
func (w *Writer) WriteString(s string) (int, error) {
	n := len(s)
	for len(s) > 0 {
		if len(w.buf) == cap(w.buf) {
			w.Flush()
		}
		c := copy(w.buf[len(w.buf):cap(w.buf)], s)
		w.buf = w.buf[:len(w.buf)+c]
		s = s[c:]
	}
	return n, nil
}

// WriteByte appends b.
func (w *Writer) WriteByte(b byte) error {
	if len(w.buf) == cap(w.buf) {
		w.Flush()
	}
	w.buf = append(w.buf, b)
	return nil
}

// Pad writes n spaces.
func (w *Writer) Pad(n int) {
	for ; n > 0; n-- {
		w.WriteByte(' ')
	}
}

// AlignLeft writes value followed by spaces up to width bytes.
func (w *Writer) AlignLeft(value []byte, width int) {
	w.Write(value)
	w.Pad(width - len(value))
}

// AlignRight writes n in decimal, preceded by spaces up to width bytes.
func (w *Writer) AlignRight(n uint64, width int) {
	var digits [20]byte
	s := strconv.AppendUint(digits[:0], n, 10)
	w.Pad(width - len(s))
	w.Write(s)
}

// Flush hands the buffered bytes to the underlying writer.
func (w *Writer) Flush() error {
	if len(w.buf) > 0 && w.err == nil {
		_, w.err = w.out.Write(w.buf)
	}
	w.buf = w.buf[:0]
	return w.err
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Close resets the terminal style if needed and flushes.
func (w *Writer) Close() error {
	w.Style(style.Reset)
	return w.Flush()
}

// digitsOf returns the decimal width of n.
func digitsOf(n uint64) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}
