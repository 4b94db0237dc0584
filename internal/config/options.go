package config

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// DisplayMode selects the renderer.
type DisplayMode int

const (
	Grid DisplayMode = iota
	Long
	SingleColumn
	Stream
)

func (m DisplayMode) String() string {
	switch m {
	case Long:
		return "long"
	case SingleColumn:
		return "single-column"
	case Stream:
		return "stream"
	}
	return "grid"
}

// SortField is the primary sort key.
type SortField int

const (
	SortName SortField = iota
	SortNone
	SortSize
	SortTime
)

// ShowAll controls which dot-files survive filtering.
type ShowAll int

const (
	ShowAllNo ShowAll = iota
	ShowAllAlmost
	ShowAllYes
)

// SuffixPolicy controls which type suffixes are printed after names.
type SuffixPolicy int

const (
	SuffixNone SuffixPolicy = iota
	SuffixDirectories
	SuffixAll
)

// FollowPolicy controls when symbolic links are dereferenced.
type FollowPolicy int

const (
	FollowNever FollowPolicy = iota
	FollowWhenExplicit
	FollowAlways
)

// TimeField selects which timestamp is displayed and sorted on.
type TimeField int

const (
	TimeModified TimeField = iota
	TimeStatusChanged
	TimeAccessed
)

// ColorMode is the requested color behavior before terminal probing.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// WidthMode selects how display widths of names are measured.
type WidthMode int

const (
	WidthGraphemes WidthMode = iota
	WidthCells
)

// Options is the resolved, immutable configuration of one run.
type Options struct {
	Display       DisplayMode
	TerminalWidth int
	Sort          SortField
	Reverse       bool
	ShowAll       ShowAll
	Suffixes      SuffixPolicy
	Follow        FollowPolicy
	Time          TimeField
	Color         bool
	WidthMode     WidthMode

	Inode              bool
	Kilobytes          bool
	ReplaceUnprintable bool
	SizeInBlocks       bool
	Recurse            bool
	// ListDirectoryContents is false under -d: directories are listed as files.
	ListDirectoryContents bool
	PrintOwner            bool
	PrintGroup            bool
	NumericIDs            bool
}

// DefaultOptions returns the options of a bare invocation on a terminal of
// the given width.
func DefaultOptions(width int) Options {
	return Options{
		Display:               Grid,
		TerminalWidth:         width,
		Sort:                  SortName,
		Follow:                FollowWhenExplicit,
		ListDirectoryContents: true,
		PrintOwner:            true,
		PrintGroup:            true,
	}
}

// NeedsDetails reports whether entries must be stat-augmented before sorting
// and rendering.
func (o *Options) NeedsDetails() bool {
	return o.Display == Long || o.Sort == SortSize || o.Sort == SortTime || o.SizeInBlocks
}

// BlockUnit is the size in bytes of one displayed block.
func (o *Options) BlockUnit() int64 {
	if o.Kilobytes {
		return 1024
	}
	return 512
}

// ResolveColor decides whether escapes are written, given whether stdout is
// a terminal. Auto honors NO_COLOR and CLICOLOR.
func ResolveColor(mode ColorMode, isTerminal bool) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return isTerminal && !termenv.EnvNoColor()
}

// ParseColorMode parses auto, always or never.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto", "tty", "if-tty":
		return ColorAuto, nil
	case "always", "yes", "force":
		return ColorAlways, nil
	case "never", "no", "none":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q", s)
}

// ParseSuffixPolicy parses none, dirs or all.
func ParseSuffixPolicy(s string) (SuffixPolicy, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return SuffixNone, nil
	case "dirs", "directories":
		return SuffixDirectories, nil
	case "all", "classify":
		return SuffixAll, nil
	}
	return SuffixNone, fmt.Errorf("invalid suffix policy %q", s)
}

// ParseSortField parses name, none, size or time.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(s) {
	case "", "name":
		return SortName, nil
	case "none":
		return SortNone, nil
	case "size":
		return SortSize, nil
	case "time":
		return SortTime, nil
	}
	return SortName, fmt.Errorf("invalid sort field %q", s)
}

// ParseTimeField parses mtime, ctime or atime.
func ParseTimeField(s string) (TimeField, error) {
	switch strings.ToLower(s) {
	case "", "mtime", "modified":
		return TimeModified, nil
	case "ctime", "changed":
		return TimeStatusChanged, nil
	case "atime", "accessed":
		return TimeAccessed, nil
	}
	return TimeModified, fmt.Errorf("invalid time field %q", s)
}

// ParseWidthMode parses graphemes or cells.
func ParseWidthMode(s string) (WidthMode, error) {
	switch strings.ToLower(s) {
	case "", "graphemes":
		return WidthGraphemes, nil
	case "cells":
		return WidthCells, nil
	}
	return WidthGraphemes, fmt.Errorf("invalid width mode %q", s)
}
