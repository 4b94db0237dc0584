// Package fsys reads directories and file metadata through raw Linux
// syscalls, relative to an open directory descriptor.
package fsys

import (
	"encoding/binary"

	"fls/pkg/types"
)

// Linux dirent64 layout:
//
//	struct linux_dirent64 {
//	    ino64_t        d_ino;    /* offset 0 */
//	    off64_t        d_off;    /* offset 8 */
//	    unsigned short d_reclen; /* offset 16 */
//	    unsigned char  d_type;   /* offset 18 */
//	    char           d_name[]; /* offset 19, NUL-terminated */
//	};
const (
	direntInoOff    = 0
	direntReclenOff = 16
	direntTypeOff   = 18
	direntNameOff   = 19
)

// d_type values from dirent.h.
const (
	dtUnknown = 0
	dtFifo    = 1
	dtChr     = 2
	dtDir     = 4
	dtBlk     = 6
	dtReg     = 8
	dtLnk     = 10
	dtSock    = 12
)

func dtypeOf(b byte) types.DType {
	switch b {
	case dtFifo:
		return types.DTypeFifo
	case dtChr:
		return types.DTypeChar
	case dtDir:
		return types.DTypeDir
	case dtBlk:
		return types.DTypeBlock
	case dtReg:
		return types.DTypeRegular
	case dtLnk:
		return types.DTypeLink
	case dtSock:
		return types.DTypeSocket
	}
	return types.DTypeUnknown
}

// ParseDirents appends one ListItem per record in buf to dst. Names alias
// buf; callers must keep buf alive and unmodified while the items are used.
func ParseDirents(buf []byte, dst []types.ListItem) []types.ListItem {
	offset := 0
	for offset+direntNameOff <= len(buf) {
		reclen := int(binary.NativeEndian.Uint16(buf[offset+direntReclenOff:]))
		if reclen == 0 {
			break
		}
		end := offset + reclen
		if end > len(buf) {
			end = len(buf)
		}

		name := buf[offset+direntNameOff : end]
		nameLen := 0
		for nameLen < len(name) && name[nameLen] != 0 {
			nameLen++
		}

		dst = append(dst, types.ListItem{
			Name:  name[:nameLen:nameLen],
			Inode: binary.NativeEndian.Uint64(buf[offset+direntInoOff:]),
			Type:  dtypeOf(buf[offset+direntTypeOff]),
		})
		offset += reclen
	}
	return dst
}
