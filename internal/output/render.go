package output

import (
	"fls/internal/clock"
	"fls/internal/config"
	"fls/internal/idmap"
	"fls/internal/layout"
	"fls/internal/log"
	"fls/internal/style"
	"fls/pkg/types"
)

// Source is the directory the rendered items were read from.
type Source interface {
	style.Prober
	Readlink(name []byte, buf []byte) ([]byte, error)
}

// Reporter receives per-entry errors. Rendering continues after a report.
type Reporter interface {
	Report(err error)
}

// entry is an item prepared for rendering.
type entry struct {
	item   *types.ListItem
	name   []byte
	style  style.Style
	suffix byte
	width  int
}

// Renderer writes listings in the configured display mode.
type Renderer struct {
	w          *Writer
	opts       *config.Options
	classifier *style.Classifier
	ids        *idmap.Map
	clock      clock.Clock
	reporter   Reporter

	entries []entry
	linkBuf []byte
}

// NewRenderer returns a renderer writing to w.
func NewRenderer(w *Writer, opts *config.Options, classifier *style.Classifier, ids *idmap.Map, clk clock.Clock, reporter Reporter) *Renderer {
	if ids == nil {
		ids = idmap.Empty()
	}
	return &Renderer{
		w:          w,
		opts:       opts,
		classifier: classifier,
		ids:        ids,
		clock:      clk,
		reporter:   reporter,
	}
}

// Writer returns the underlying output buffer.
func (r *Renderer) Writer() *Writer {
	return r.w
}

// Render writes items, already filtered and sorted, in the configured
// display mode. src resolves names for classification and readlink.
func (r *Renderer) Render(items []types.ListItem, src Source) {
	if len(items) == 0 {
		return
	}
	entries := r.prepare(items, src)
	switch r.opts.Display {
	case config.Long:
		r.long(entries, src)
	case config.SingleColumn:
		r.singleColumn(entries)
	case config.Stream:
		r.stream(entries)
	default:
		r.grid(entries)
	}
}

// Total writes the "total" line that precedes a directory listing in long
// mode or when block counts are shown.
func (r *Renderer) Total(items []types.ListItem) {
	if r.opts.Display != config.Long && !r.opts.SizeInBlocks {
		return
	}
	var total uint64
	for i := range items {
		total += r.blocks(&items[i])
	}
	r.w.Style(style.Reset)
	r.w.WriteString("total ")
	r.w.AlignRight(total, 0)
	r.w.WriteByte('\n')
}

// prepare classifies every item once and measures its name.
func (r *Renderer) prepare(items []types.ListItem, src Source) []entry {
	if cap(r.entries) < len(items) {
		r.entries = make([]entry, len(items))
	}
	entries := r.entries[:len(items)]
	for i := range items {
		it := &items[i]
		s, suffix, err := r.classifier.Classify(it, src)
		if err != nil {
			r.report(err)
		}
		name := it.Name
		if r.opts.ReplaceUnprintable {
			name = Sanitize(name)
		}
		width := DisplayWidth(name, r.opts.WidthMode)
		if suffix != 0 {
			width++
		}
		entries[i] = entry{item: it, name: name, style: s, suffix: suffix, width: width}
	}
	return entries
}

func (r *Renderer) report(err error) {
	if r.reporter != nil {
		r.reporter.Report(err)
		return
	}
	log.LogError(err, "render failed")
}

// prefixWidths returns the widths of the inode and block columns, zero
// when the column is off.
func (r *Renderer) prefixWidths(entries []entry) (inode, blocks int) {
	for i := range entries {
		it := entries[i].item
		if r.opts.Inode {
			inode = max(inode, digitsOf(inodeOf(it)))
		}
		if r.opts.SizeInBlocks {
			blocks = max(blocks, digitsOf(r.blocks(it)))
		}
	}
	return inode, blocks
}

// writePrefix writes the inode and block columns, each followed by a space.
func (r *Renderer) writePrefix(it *types.ListItem, inodeWidth, blocksWidth int) {
	if inodeWidth == 0 && blocksWidth == 0 {
		return
	}
	r.w.Style(style.White)
	if inodeWidth > 0 {
		r.w.AlignRight(inodeOf(it), inodeWidth)
		r.w.WriteByte(' ')
	}
	if blocksWidth > 0 {
		r.w.AlignRight(r.blocks(it), blocksWidth)
		r.w.WriteByte(' ')
	}
}

// writeName writes the styled name and its suffix.
func (r *Renderer) writeName(e *entry) {
	r.w.Style(e.style)
	r.w.Write(e.name)
	if e.suffix != 0 {
		r.w.Style(style.White)
		r.w.WriteByte(e.suffix)
	}
}

func (r *Renderer) grid(entries []entry) {
	inodeWidth, blocksWidth := r.prefixWidths(entries)
	prefix := 0
	if inodeWidth > 0 {
		prefix += inodeWidth + 1
	}
	if blocksWidth > 0 {
		prefix += blocksWidth + 1
	}

	widths := make([]int, len(entries))
	for i := range entries {
		widths[i] = prefix + entries[i].width
	}
	rows, columns := layout.Layout(widths, r.opts.TerminalWidth)
	log.Debugf("grid layout: %d entries, %d rows, %d columns", len(entries), rows, len(columns))

	n := len(entries)
	for row := 0; row < rows; row++ {
		for col, colWidth := range columns {
			i := col*rows + row
			if i >= n {
				break
			}
			e := &entries[i]
			r.writePrefix(e.item, inodeWidth, blocksWidth)
			r.writeName(e)
			if col+1 < len(columns) && (col+1)*rows+row < n {
				r.w.Pad(colWidth - widths[i])
			}
		}
		r.w.Style(style.Reset)
		r.w.WriteByte('\n')
	}
}

func (r *Renderer) singleColumn(entries []entry) {
	inodeWidth, blocksWidth := r.prefixWidths(entries)
	for i := range entries {
		r.writePrefix(entries[i].item, inodeWidth, blocksWidth)
		r.writeName(&entries[i])
		r.w.WriteByte('\n')
	}
}

func (r *Renderer) stream(entries []entry) {
	inodeWidth, blocksWidth := r.prefixWidths(entries)
	last := len(entries) - 1
	for i := range entries {
		r.writePrefix(entries[i].item, inodeWidth, blocksWidth)
		r.writeName(&entries[i])
		if i < last {
			r.w.Style(style.White)
			r.w.WriteString(", ")
		}
	}
	r.w.Style(style.Reset)
	r.w.WriteByte('\n')
}

// blocks returns the allocated size of it in display units, rounded up.
func (r *Renderer) blocks(it *types.ListItem) uint64 {
	if it.Status == nil || it.Status.Blocks <= 0 {
		return 0
	}
	unit := r.opts.BlockUnit()
	return uint64((it.Status.Blocks*512 + unit - 1) / unit)
}

func inodeOf(it *types.ListItem) uint64 {
	if it.Status != nil {
		return it.Status.Inode
	}
	return it.Inode
}
