package main

import (
	"fls/internal/config"

	"github.com/spf13/pflag"
)

// flags holds the raw command-line switches before they are resolved into
// config.Options.
type flags struct {
	all, almostAll             bool
	grid, across               bool
	classify, slash            bool
	followArgs, followAll      bool
	recurse                    bool
	sortSize, sortTime, unsort bool
	ctime, atime               bool
	directory                  bool
	long, noOwner, noGroup     bool
	numeric                    bool
	inode, kilobytes, blocks   bool
	quote                      bool
	reverse                    bool
	stream, one                bool
	color, configFile          string
	initConfig                 bool
	debug                      bool
	hide, ignore               []string
	gitignore                  bool
	width                      int
	watch                      bool
}

func (f *flags) register(fs *pflag.FlagSet) {
	fs.SortFlags = false

	fs.BoolVarP(&f.all, "all", "a", false, "do not ignore entries starting with .")
	fs.BoolVarP(&f.almostAll, "almost-all", "A", false, "do not list implied . and ..")
	fs.BoolVarP(&f.grid, "columns", "C", false, "list entries in columns")
	fs.BoolVarP(&f.across, "across", "x", false, "same as -C")
	fs.BoolVarP(&f.classify, "classify", "F", false, "append indicator (one of /*@|) to entries")
	fs.BoolVarP(&f.slash, "indicator-slash", "p", false, "append / to directories")
	fs.BoolVarP(&f.followArgs, "dereference-command-line", "H", false, "follow symbolic links listed on the command line")
	fs.BoolVarP(&f.followAll, "dereference", "L", false, "follow all symbolic links")
	fs.BoolVarP(&f.recurse, "recursive", "R", false, "list subdirectories recursively")
	fs.BoolVarP(&f.sortSize, "sort-size", "S", false, "sort by file size, largest first")
	fs.BoolVarP(&f.sortTime, "sort-time", "t", false, "sort by time, newest first")
	fs.BoolVarP(&f.unsort, "unsorted", "f", false, "do not sort, list all entries")
	fs.BoolVarP(&f.ctime, "ctime", "c", false, "use status change time")
	fs.BoolVarP(&f.atime, "atime", "u", false, "use access time")
	fs.BoolVarP(&f.directory, "directory", "d", false, "list directories themselves, not their contents")
	fs.BoolVarP(&f.long, "long", "l", false, "use a long listing format")
	fs.BoolVarP(&f.noOwner, "no-owner", "g", false, "like -l, but do not list owner")
	fs.BoolVarP(&f.noGroup, "no-group", "o", false, "like -l, but do not list group")
	fs.BoolVarP(&f.numeric, "numeric-uid-gid", "n", false, "like -l, but list numeric user and group IDs")
	fs.BoolVarP(&f.inode, "inode", "i", false, "print the index number of each file")
	fs.BoolVarP(&f.kilobytes, "kibibytes", "k", false, "use 1024-byte blocks")
	fs.BoolVarP(&f.blocks, "size", "s", false, "print the allocated size of each file, in blocks")
	fs.BoolVarP(&f.quote, "hide-control-chars", "q", false, "print ? instead of nongraphic characters")
	fs.BoolVarP(&f.reverse, "reverse", "r", false, "reverse order while sorting")
	fs.BoolVarP(&f.stream, "commas", "m", false, "fill width with a comma separated list of entries")
	fs.BoolVarP(&f.one, "one", "1", false, "list one file per line")

	fs.StringVar(&f.color, "color", "", "colorize the output: auto, always or never")
	fs.StringVar(&f.configFile, "config", "", "config file (default is $HOME/.config/fls/config.yaml)")
	fs.BoolVar(&f.initConfig, "init-config", false, "write the default config file and exit")
	fs.BoolVar(&f.debug, "debug", false, "log debug information to stderr")
	fs.StringArrayVarP(&f.ignore, "ignore", "I", nil, "do not list entries matching the glob PATTERN")
	fs.StringArrayVar(&f.hide, "hide", nil, "do not list entries matching PATTERN unless -a or -A is given")
	fs.BoolVar(&f.gitignore, "gitignore", false, "do not list entries ignored by .gitignore files")
	fs.IntVarP(&f.width, "width", "w", 0, "assume the screen is COLS wide")
	fs.BoolVar(&f.watch, "watch", false, "list again whenever a listed directory changes")
}

func (f *flags) longFamily() bool {
	return f.long || f.noOwner || f.noGroup || f.numeric
}

// apply resolves the switches on top of opts, which already carries the
// config file settings. isTerminal and width describe standard output.
func (f *flags) apply(opts *config.Options, isTerminal bool, width int) {
	opts.TerminalWidth = width
	if f.width > 0 {
		opts.TerminalWidth = f.width
	}

	// Long beats -m, which beats -1, which beats -C.
	switch {
	case f.longFamily():
		opts.Display = config.Long
	case f.stream:
		opts.Display = config.Stream
	case f.one:
		opts.Display = config.SingleColumn
	case f.grid || f.across:
		opts.Display = config.Grid
	case !isTerminal:
		opts.Display = config.SingleColumn
	default:
		opts.Display = config.Grid
	}
	if f.noOwner {
		opts.PrintOwner = false
	}
	if f.noGroup {
		opts.PrintGroup = false
	}
	opts.NumericIDs = f.numeric

	switch {
	case f.all:
		opts.ShowAll = config.ShowAllYes
	case f.almostAll:
		opts.ShowAll = config.ShowAllAlmost
	}

	switch {
	case f.classify:
		opts.Suffixes = config.SuffixAll
	case f.slash:
		opts.Suffixes = config.SuffixDirectories
	}

	switch {
	case f.ctime:
		opts.Time = config.TimeStatusChanged
	case f.atime:
		opts.Time = config.TimeAccessed
	}

	switch {
	case f.unsort:
		opts.Sort = config.SortNone
		opts.ShowAll = config.ShowAllYes
	case f.sortSize:
		opts.Sort = config.SortSize
	case f.sortTime:
		opts.Sort = config.SortTime
	}
	opts.Reverse = f.reverse

	switch {
	case f.followAll:
		opts.Follow = config.FollowAlways
	case f.followArgs:
		opts.Follow = config.FollowWhenExplicit
	case f.classify || f.directory || f.longFamily():
		opts.Follow = config.FollowNever
	default:
		opts.Follow = config.FollowWhenExplicit
	}

	opts.Recurse = f.recurse
	opts.ListDirectoryContents = !f.directory
	opts.Inode = f.inode
	opts.Kilobytes = f.kilobytes
	opts.SizeInBlocks = f.blocks
	opts.ReplaceUnprintable = f.quote
}
