package style

import (
	"bytes"
	"sort"
	"strings"

	"fls/internal/errors"
)

type extEntry struct {
	ext   string
	style Style
}

// Compressed archives are red, documents and media magenta, temporary
// files gray. Must stay sorted by extension.
var defaultExtensions = []extEntry{
	{"7z", Red},
	{"avi", Magenta},
	{"bmp", Magenta},
	{"bz2", Red},
	{"eps", Magenta},
	{"flac", Magenta},
	{"gif", Magenta},
	{"gz", Red},
	{"jpeg", Magenta},
	{"jpg", Magenta},
	{"lz", Red},
	{"lz4", Red},
	{"lzma", Red},
	{"mkv", Magenta},
	{"mov", Magenta},
	{"mp3", Magenta},
	{"mp4", Magenta},
	{"ogg", Magenta},
	{"pdf", Magenta},
	{"png", Magenta},
	{"rar", Red},
	{"svg", Magenta},
	{"swp", Gray},
	{"tar", Red},
	{"tbz2", Red},
	{"tgz", Red},
	{"tmp", Gray},
	{"txz", Red},
	{"wav", Magenta},
	{"webm", Magenta},
	{"webp", Magenta},
	{"xz", Red},
	{"zip", Red},
	{"zst", Red},
}

// TempStyle is used for editor backups and autosaves.
const TempStyle = Gray

// DefaultStyle is used for regular files with no known extension.
const DefaultStyle = White

// Table maps extensions to styles. It is built once and never mutated.
type Table struct {
	entries []extEntry
}

// DefaultTable returns the built-in extension table.
func DefaultTable() *Table {
	return &Table{entries: defaultExtensions}
}

// NewTable returns the built-in table with overrides applied. Keys are
// extensions without the dot, values style names accepted by Parse.
func NewTable(overrides map[string]string) (*Table, error) {
	if len(overrides) == 0 {
		return DefaultTable(), nil
	}

	merged := make(map[string]Style, len(defaultExtensions)+len(overrides))
	for _, e := range defaultExtensions {
		merged[e.ext] = e.style
	}
	for ext, name := range overrides {
		s, err := Parse(name)
		if err != nil {
			return nil, errors.NewConfigError("invalid extension style", ext, errors.InvalidConfig, err)
		}
		merged[strings.ToLower(strings.TrimPrefix(ext, "."))] = s
	}

	entries := make([]extEntry, 0, len(merged))
	for ext, s := range merged {
		entries = append(entries, extEntry{ext: ext, style: s})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ext < entries[j].ext })
	return &Table{entries: entries}, nil
}

// Lookup finds the style for ext, ignoring ASCII case.
func (t *Table) Lookup(ext []byte) (Style, bool) {
	i := sort.Search(len(t.entries), func(i int) bool {
		return compareFold(t.entries[i].ext, ext) >= 0
	})
	if i < len(t.entries) && compareFold(t.entries[i].ext, ext) == 0 {
		return t.entries[i].style, true
	}
	return DefaultStyle, false
}

// ForName picks the style of a regular, non-executable file from its name.
func (t *Table) ForName(name []byte) Style {
	if IsTemp(name) {
		return TempStyle
	}
	dot := bytes.LastIndexByte(name, '.')
	if dot < 0 || dot == len(name)-1 {
		return DefaultStyle
	}
	s, _ := t.Lookup(name[dot+1:])
	return s
}

// IsTemp reports names of the form #name, name~ or name#.
func IsTemp(name []byte) bool {
	if len(name) == 0 {
		return false
	}
	last := name[len(name)-1]
	return name[0] == '#' || last == '~' || last == '#'
}

// compareFold compares a lowercase table key with b, folding b to lowercase.
func compareFold(key string, b []byte) int {
	for i := 0; i < len(key) && i < len(b); i++ {
		c := b[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if key[i] != c {
			if key[i] < c {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(key) < len(b):
		return -1
	case len(key) > len(b):
		return 1
	}
	return 0
}
