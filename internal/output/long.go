package output

import (
	"strconv"

	"fls/internal/style"
	"fls/pkg/types"
)

// linkTargetMax bounds a readlink result.
const linkTargetMax = 4096

// columns holds the pre-scanned widths of one long listing.
type columns struct {
	inode int
	links int
	owner int
	group int
	size  int
}

func (r *Renderer) owner(st *types.Status) []byte {
	if r.opts.NumericIDs {
		return strconv.AppendUint(nil, uint64(st.UID), 10)
	}
	return r.ids.User(st.UID)
}

func (r *Renderer) group(st *types.Status) []byte {
	if r.opts.NumericIDs {
		return strconv.AppendUint(nil, uint64(st.GID), 10)
	}
	return r.ids.Group(st.GID)
}

// size returns the value of the size column: bytes, or blocks under -s.
func (r *Renderer) size(it *types.ListItem) uint64 {
	if r.opts.SizeInBlocks {
		return r.blocks(it)
	}
	if it.Status.Size < 0 {
		return 0
	}
	return uint64(it.Status.Size)
}

func (r *Renderer) scanColumns(entries []entry) columns {
	var c columns
	for i := range entries {
		it := entries[i].item
		if it.Status == nil {
			continue
		}
		if r.opts.Inode {
			c.inode = max(c.inode, digitsOf(inodeOf(it)))
		}
		c.links = max(c.links, digitsOf(it.Status.Links))
		if r.opts.PrintOwner {
			c.owner = max(c.owner, len(r.owner(it.Status)))
		}
		if r.opts.PrintGroup {
			c.group = max(c.group, len(r.group(it.Status)))
		}
		c.size = max(c.size, digitsOf(r.size(it)))
	}
	return c
}

// long writes one detailed line per entry. Entries without stat data were
// already reported by the caller and are skipped.
func (r *Renderer) long(entries []entry, src Source) {
	cols := r.scanColumns(entries)
	for i := range entries {
		e := &entries[i]
		st := e.item.Status
		if st == nil {
			continue
		}
		if cols.inode > 0 {
			r.w.Style(style.White)
			r.w.AlignRight(inodeOf(e.item), cols.inode)
			r.w.WriteByte(' ')
		}
		r.mode(st.Mode)

		r.w.WriteByte(' ')
		r.w.Style(style.White)
		r.w.AlignRight(st.Links, cols.links)

		if r.opts.PrintOwner {
			r.w.WriteByte(' ')
			r.w.Style(style.YellowBold)
			r.w.AlignLeft(r.owner(st), cols.owner)
		}
		if r.opts.PrintGroup {
			r.w.WriteByte(' ')
			r.w.Style(style.YellowBold)
			r.w.AlignLeft(r.group(st), cols.group)
		}

		r.w.WriteByte(' ')
		r.w.Style(style.GreenBold)
		r.w.AlignRight(r.size(e.item), cols.size)

		r.timestamp(st)

		r.w.WriteByte(' ')
		r.writeName(e)

		if st.Type() == types.ModeSymlink {
			r.linkTarget(e.item, src)
		}
		r.w.Style(style.Reset)
		r.w.WriteByte('\n')
	}
}

// fileTypeChar returns the ls type marker and its style.
func fileTypeChar(mode uint32) (byte, style.Style) {
	switch mode & types.ModeTypeMask {
	case types.ModeDir:
		return 'd', style.BlueBold
	case types.ModeSymlink:
		return 'l', style.Cyan
	case types.ModeFifo:
		return 'p', style.White
	case types.ModeSocket:
		return 's', style.White
	case types.ModeChar:
		return 'c', style.White
	case types.ModeBlock:
		return 'b', style.White
	}
	return '-', style.White
}

// mode writes the type marker and the nine permission characters.
func (r *Renderer) mode(mode uint32) {
	c, s := fileTypeChar(mode)
	r.w.Style(s)
	r.w.WriteByte(c)

	for shift := 6; shift >= 0; shift -= 3 {
		bits := mode >> uint(shift)
		r.bit(bits&0o4 != 0, 'r', style.GreenBold)
		r.bit(bits&0o2 != 0, 'w', style.YellowBold)

		exec := bits&0o1 != 0
		var special bool
		var mark byte
		switch shift {
		case 6:
			special, mark = mode&types.ModeSetuid != 0, 's'
		case 3:
			special, mark = mode&types.ModeSetgid != 0, 's'
		default:
			special, mark = mode&types.ModeSticky != 0, 't'
		}
		switch {
		case special && exec:
			r.bit(true, mark, style.RedBold)
		case special:
			r.bit(true, mark-'a'+'A', style.RedBold)
		default:
			r.bit(exec, 'x', style.RedBold)
		}
	}
}

func (r *Renderer) bit(set bool, c byte, s style.Style) {
	if !set {
		r.w.Style(style.Gray)
		r.w.WriteByte('-')
		return
	}
	r.w.Style(s)
	r.w.WriteByte(c)
}

// timestamp writes " Mon dd HH:MM" for recent times and " Mon dd  YYYY"
// otherwise.
func (r *Renderer) timestamp(st *types.Status) {
	wall := r.clock.Local(st.Time)
	r.w.WriteByte(' ')
	r.w.Style(style.Blue)
	r.w.WriteString(wall.Month.String()[:3])
	r.w.WriteByte(' ')
	r.w.AlignRight(uint64(wall.Day), 2)
	r.w.WriteByte(' ')
	if r.clock.Recent(st.Time) {
		r.twoDigits(wall.Hour)
		r.w.WriteByte(':')
		r.twoDigits(wall.Minute)
		return
	}
	r.w.WriteByte(' ')
	r.w.AlignRight(uint64(max(wall.Year, 0)), 4)
}

func (r *Renderer) twoDigits(n int) {
	r.w.WriteByte(byte('0' + n/10))
	r.w.WriteByte(byte('0' + n%10))
}

func (r *Renderer) linkTarget(it *types.ListItem, src Source) {
	if src == nil {
		return
	}
	if r.linkBuf == nil {
		r.linkBuf = make([]byte, linkTargetMax)
	}
	target, err := src.Readlink(it.Name, r.linkBuf)
	if err != nil {
		r.report(err)
		return
	}
	if len(target) == 0 {
		return
	}
	if r.opts.ReplaceUnprintable {
		target = Sanitize(target)
	}
	r.w.Style(style.Gray)
	r.w.WriteString(" -> ")
	r.w.Style(style.White)
	r.w.Write(target)
}
