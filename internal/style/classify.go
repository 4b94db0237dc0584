package style

import (
	"fls/internal/config"
	"fls/internal/errors"
	"fls/pkg/types"

	"golang.org/x/sys/unix"
)

// Suffix characters.
const (
	SuffixDir  = '/'
	SuffixExec = '*'
	SuffixLink = '@'
	SuffixFifo = '|'
)

// Prober issues the fallback syscalls for entries the directory hint does
// not settle.
type Prober interface {
	Access(name []byte, mode uint32) error
	Lstat(name []byte) (*types.Status, error)
}

// Classifier resolves the style and optional suffix of entries.
type Classifier struct {
	table    *Table
	color    bool
	suffixes config.SuffixPolicy
}

// NewClassifier returns a classifier for the run's options.
func NewClassifier(table *Table, opts *config.Options) *Classifier {
	if table == nil {
		table = DefaultTable()
	}
	return &Classifier{table: table, color: opts.Color, suffixes: opts.Suffixes}
}

// Classify returns the style and suffix (0 for none) of item. It issues at
// most one syscall through p, and only when neither stat data nor the
// directory hint decides the answer. On a probe failure the error is
// returned together with a usable default style.
func (c *Classifier) Classify(item *types.ListItem, p Prober) (Style, byte, error) {
	if !c.color && c.suffixes == config.SuffixNone {
		return Reset, 0, nil
	}
	if item.Status != nil {
		return c.fromMode(item.Name, item.Status.Mode)
	}

	switch item.Type {
	case types.DTypeDir:
		return c.dir()
	case types.DTypeFifo:
		return YellowBold, c.suffix(SuffixFifo), nil
	case types.DTypeChar, types.DTypeBlock, types.DTypeSocket:
		return YellowBold, 0, nil
	case types.DTypeLink:
		if !c.color && c.suffixes != config.SuffixAll {
			return Reset, 0, nil
		}
		return c.link(item.Name, p)
	case types.DTypeRegular:
		if !c.color && c.suffixes != config.SuffixAll {
			return Reset, 0, nil
		}
		return c.regular(item.Name, p)
	}

	st, err := p.Lstat(item.Name)
	if err != nil {
		return White, 0, err
	}
	return c.fromMode(item.Name, st.Mode)
}

// fromMode classifies from stat data without any syscall.
func (c *Classifier) fromMode(name []byte, mode uint32) (Style, byte, error) {
	switch mode & types.ModeTypeMask {
	case types.ModeDir:
		return c.dir()
	case types.ModeFifo:
		return YellowBold, c.suffix(SuffixFifo), nil
	case types.ModeSocket, types.ModeChar, types.ModeBlock:
		return YellowBold, 0, nil
	case types.ModeSymlink:
		return CyanBold, c.suffix(SuffixLink), nil
	case types.ModeRegular:
		if mode&types.ModeExec != 0 {
			return GreenBold, c.suffix(SuffixExec), nil
		}
		return c.table.ForName(name), 0, nil
	}
	return White, 0, nil
}

func (c *Classifier) dir() (Style, byte, error) {
	if c.suffixes == config.SuffixNone {
		return BlueBold, 0, nil
	}
	return BlueBold, SuffixDir, nil
}

func (c *Classifier) link(name []byte, p Prober) (Style, byte, error) {
	err := p.Access(name, unix.F_OK)
	if err == nil {
		return CyanBold, c.suffix(SuffixLink), nil
	}
	if errno, ok := errors.Errno(err); ok && (errno == unix.ENOENT || errno == unix.ELOOP) {
		return RedBold, c.suffix(SuffixLink), nil
	}
	return White, 0, err
}

func (c *Classifier) regular(name []byte, p Prober) (Style, byte, error) {
	err := p.Access(name, unix.X_OK)
	if err == nil {
		return GreenBold, c.suffix(SuffixExec), nil
	}
	if errno, ok := errors.Errno(err); ok && (errno == unix.EACCES || errno == unix.EPERM) {
		return c.table.ForName(name), 0, nil
	}
	return White, 0, err
}

// suffix returns s when every suffix is requested.
func (c *Classifier) suffix(s byte) byte {
	if c.suffixes == config.SuffixAll {
		return s
	}
	return 0
}
