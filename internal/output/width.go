package output

import (
	"unicode/utf8"

	"fls/internal/config"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// DisplayWidth measures name as it will appear on screen. Valid UTF-8 is
// counted in grapheme clusters, or in terminal cells in cells mode;
// anything else counts one column per byte.
func DisplayWidth(name []byte, mode config.WidthMode) int {
	ascii := true
	for _, b := range name {
		if b >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii || !utf8.Valid(name) {
		return len(name)
	}
	if mode == config.WidthCells {
		return runewidth.StringWidth(string(name))
	}
	return uniseg.GraphemeClusterCount(string(name))
}

// Sanitize replaces control bytes with '?'. name is returned unchanged
// when it has none.
func Sanitize(name []byte) []byte {
	i := 0
	for i < len(name) && !isControl(name[i]) {
		i++
	}
	if i == len(name) {
		return name
	}
	out := make([]byte, len(name))
	copy(out, name)
	for ; i < len(out); i++ {
		if isControl(out[i]) {
			out[i] = '?'
		}
	}
	return out
}

func isControl(b byte) bool {
	return b < 0x20 || b == 0x7f
}
