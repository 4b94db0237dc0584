package types

import (
	"bytes"
	"time"
)

// DType is the file type hint returned alongside a name by a directory read.
type DType uint8

const (
	DTypeUnknown DType = iota
	DTypeFifo
	DTypeChar
	DTypeDir
	DTypeBlock
	DTypeRegular
	DTypeLink
	DTypeSocket
)

var dtypeNames = [...]string{"unknown", "fifo", "char", "dir", "block", "regular", "link", "socket"}

func (d DType) String() string {
	if int(d) < len(dtypeNames) {
		return dtypeNames[d]
	}
	return "unknown"
}

// File type and permission bits of Status.Mode, laid out as in st_mode.
const (
	ModeTypeMask uint32 = 0o170000
	ModeSocket   uint32 = 0o140000
	ModeSymlink  uint32 = 0o120000
	ModeRegular  uint32 = 0o100000
	ModeBlock    uint32 = 0o060000
	ModeDir      uint32 = 0o040000
	ModeChar     uint32 = 0o020000
	ModeFifo     uint32 = 0o010000

	ModeSetuid uint32 = 0o4000
	ModeSetgid uint32 = 0o2000
	ModeSticky uint32 = 0o1000
	ModeExec   uint32 = 0o111
)

// Status is the subset of stat data the listing uses. Time holds whichever
// of mtime, ctime or atime the run was configured for.
type Status struct {
	Device    uint64
	Inode     uint64
	Links     uint64
	Mode      uint32
	Size      int64
	Blocks    int64
	BlockSize int64
	UID       uint32
	GID       uint32
	Time      time.Time
}

// Type returns the file type bits of the mode.
func (s *Status) Type() uint32 {
	return s.Mode & ModeTypeMask
}

// DType converts the mode's file type into the equivalent directory hint.
func (s *Status) DType() DType {
	switch s.Type() {
	case ModeFifo:
		return DTypeFifo
	case ModeChar:
		return DTypeChar
	case ModeDir:
		return DTypeDir
	case ModeBlock:
		return DTypeBlock
	case ModeRegular:
		return DTypeRegular
	case ModeSymlink:
		return DTypeLink
	case ModeSocket:
		return DTypeSocket
	}
	return DTypeUnknown
}

// ListItem is one listable entry: a directory entry, optionally augmented
// with stat data, or a synthetic entry for a file named on the command line.
// Name may alias a directory read buffer and is only valid while that
// buffer is alive.
type ListItem struct {
	Name   []byte
	Inode  uint64
	Type   DType
	Status *Status
}

// Kind returns the best known file type: the stat mode when present,
// otherwise the directory hint.
func (it *ListItem) Kind() DType {
	if it.Status != nil {
		return it.Status.DType()
	}
	return it.Type
}

// IsDir reports whether the item is known to be a directory.
func (it *ListItem) IsDir() bool {
	return it.Kind() == DTypeDir
}

// IsHidden reports whether the name starts with a dot.
func (it *ListItem) IsHidden() bool {
	return len(it.Name) > 0 && it.Name[0] == '.'
}

// IsDotOrDotDot reports whether the name is exactly "." or "..".
func (it *ListItem) IsDotOrDotDot() bool {
	return bytes.Equal(it.Name, dot) || bytes.Equal(it.Name, dotdot)
}

var (
	dot    = []byte(".")
	dotdot = []byte("..")
)
