//go:build linux

package fsys

import (
	"time"

	"fls/internal/config"
	"fls/internal/errors"
	"fls/internal/log"
	"fls/pkg/types"

	"golang.org/x/sys/unix"
)

const (
	initialReadSize = 8 << 10
	// A single record is at most 19 header bytes plus a 256 byte name, padded.
	minReadSpace = 512
)

// Access probe modes.
const (
	Exists     = unix.F_OK
	Executable = unix.X_OK
)

// Dir is an open directory. Names passed to its methods are resolved
// relative to it.
type Dir struct {
	fd   int
	path string
	buf  []byte
}

// Open opens path as a directory, following a trailing symlink.
func Open(path string) (*Dir, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, pathError("cannot open directory", path, err)
	}
	return &Dir{fd: fd, path: path}, nil
}

// Cwd returns a Dir that resolves names against the working directory. It
// needs no Close.
func Cwd() *Dir {
	return &Dir{fd: unix.AT_FDCWD, path: "."}
}

// Path returns the path the directory was opened with.
func (d *Dir) Path() string {
	return d.path
}

// Close releases the descriptor. The entries returned by ReadAll stay valid.
func (d *Dir) Close() error {
	if d.fd == unix.AT_FDCWD || d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

// ReadAll reads every entry. The read buffer doubles whenever free space
// runs low and reading continues until getdents returns no more bytes, since
// some filesystems answer the first call with a partial listing. The
// returned names alias that buffer.
func (d *Dir) ReadAll() ([]types.ListItem, error) {
	if d.buf == nil {
		d.buf = make([]byte, initialReadSize)
	}
	n := 0
	for {
		if len(d.buf)-n < minReadSpace {
			grown := make([]byte, len(d.buf)*2)
			copy(grown, d.buf[:n])
			d.buf = grown
		}
		got, err := unix.Getdents(d.fd, d.buf[n:])
		if err != nil {
			return nil, pathError("reading directory", d.path, err)
		}
		if got <= 0 {
			break
		}
		n += got
	}
	log.LogWithFields(log.F("path", d.path), log.F("bytes", n)).Debug("read directory")

	arena := d.buf[:n:n]
	// The buffer now belongs to the returned items.
	d.buf = nil
	return ParseDirents(arena, make([]types.ListItem, 0, n/32)), nil
}

// Identity returns the device and inode of the directory itself.
func (d *Dir) Identity() (dev, ino uint64, err error) {
	var st unix.Stat_t
	if err := unix.Fstat(d.fd, &st); err != nil {
		return 0, 0, pathError("cannot access", d.path, err)
	}
	return uint64(st.Dev), uint64(st.Ino), nil
}

// Stat returns metadata for name. Time is taken from the requested field.
func (d *Dir) Stat(name []byte, follow bool, field config.TimeField) (*types.Status, error) {
	flags := unix.AT_SYMLINK_NOFOLLOW
	if follow {
		flags = 0
	}
	var st unix.Stat_t
	if err := unix.Fstatat(d.fd, string(name), &st, flags); err != nil {
		return nil, pathError("cannot access", d.join(name), err)
	}
	return statusOf(&st, field), nil
}

// Lstat returns metadata for name without following a symlink.
func (d *Dir) Lstat(name []byte) (*types.Status, error) {
	return d.Stat(name, false, config.TimeModified)
}

// Access probes name with faccessat; mode is Exists or Executable.
func (d *Dir) Access(name []byte, mode uint32) error {
	if err := unix.Faccessat(d.fd, string(name), mode, 0); err != nil {
		return pathError("cannot access", d.join(name), err)
	}
	return nil
}

// Readlink reads the target of the symlink name into buf.
func (d *Dir) Readlink(name []byte, buf []byte) ([]byte, error) {
	n, err := unix.Readlinkat(d.fd, string(name), buf)
	if err != nil {
		return nil, pathError("cannot read symbolic link", d.join(name), err)
	}
	return buf[:n], nil
}

func (d *Dir) join(name []byte) string {
	if d.fd == unix.AT_FDCWD || d.path == "" {
		return string(name)
	}
	if d.path[len(d.path)-1] == '/' {
		return d.path + string(name)
	}
	return d.path + "/" + string(name)
}

func statusOf(st *unix.Stat_t, field config.TimeField) *types.Status {
	ts := st.Mtim
	switch field {
	case config.TimeStatusChanged:
		ts = st.Ctim
	case config.TimeAccessed:
		ts = st.Atim
	}
	return &types.Status{
		Device:    uint64(st.Dev),
		Inode:     uint64(st.Ino),
		Links:     uint64(st.Nlink),
		Mode:      st.Mode,
		Size:      st.Size,
		Blocks:    st.Blocks,
		BlockSize: int64(st.Blksize),
		UID:       st.Uid,
		GID:       st.Gid,
		Time:      time.Unix(ts.Unix()),
	}
}

func pathError(msg, path string, err error) error {
	if errno, ok := err.(unix.Errno); ok {
		return errors.FromErrno(msg, path, errno)
	}
	return errors.NewFileError(msg, path, errors.FileOperationFailed, err)
}
