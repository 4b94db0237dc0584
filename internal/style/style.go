// Package style defines terminal styles, the extension style table and the
// classifier that picks a style and type suffix for each listed entry.
package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Style is an SGR color/weight code. Values compare by identity, which lets
// a writer skip escapes when the style has not changed.
type Style uint16

const (
	Reset Style = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	RedBold
	GreenBold
	YellowBold
	BlueBold
	MagentaBold
	CyanBold
	WhiteBold
)

// indexedBase marks a 256-color palette style; the low byte is the index.
const indexedBase Style = 0x100

// Gray is palette color 244.
const Gray = indexedBase | 244

// Indexed returns the 256-color palette style n.
func Indexed(n uint8) Style {
	return indexedBase | Style(n)
}

var fixed = [...][]byte{
	Reset:       []byte("\x1b[m"),
	Red:         []byte("\x1b[0;31m"),
	Green:       []byte("\x1b[0;32m"),
	Yellow:      []byte("\x1b[0;33m"),
	Blue:        []byte("\x1b[0;34m"),
	Magenta:     []byte("\x1b[0;35m"),
	Cyan:        []byte("\x1b[0;36m"),
	White:       []byte("\x1b[0;37m"),
	RedBold:     []byte("\x1b[1;31m"),
	GreenBold:   []byte("\x1b[1;32m"),
	YellowBold:  []byte("\x1b[1;33m"),
	BlueBold:    []byte("\x1b[1;34m"),
	MagentaBold: []byte("\x1b[1;35m"),
	CyanBold:    []byte("\x1b[1;36m"),
	WhiteBold:   []byte("\x1b[1;37m"),
}

var names = [...]string{
	Reset:       "reset",
	Red:         "red",
	Green:       "green",
	Yellow:      "yellow",
	Blue:        "blue",
	Magenta:     "magenta",
	Cyan:        "cyan",
	White:       "white",
	RedBold:     "red-bold",
	GreenBold:   "green-bold",
	YellowBold:  "yellow-bold",
	BlueBold:    "blue-bold",
	MagentaBold: "magenta-bold",
	CyanBold:    "cyan-bold",
	WhiteBold:   "white-bold",
}

// AppendTo appends the escape sequence for s to dst.
func (s Style) AppendTo(dst []byte) []byte {
	if s&indexedBase != 0 {
		dst = append(dst, "\x1b[0;38;5;"...)
		dst = strconv.AppendUint(dst, uint64(s&0xff), 10)
		return append(dst, 'm')
	}
	if int(s) < len(fixed) {
		return append(dst, fixed[s]...)
	}
	return append(dst, fixed[Reset]...)
}

// Bytes returns the escape sequence for s.
func (s Style) Bytes() []byte {
	return s.AppendTo(nil)
}

func (s Style) String() string {
	if s == Gray {
		return "gray"
	}
	if s&indexedBase != 0 {
		return strconv.Itoa(int(s & 0xff))
	}
	if int(s) < len(names) {
		return names[s]
	}
	return fmt.Sprintf("Style(%d)", uint16(s))
}

// Parse turns a style name from the config file into a Style. Accepted
// forms are color names with an optional "bold" part ("red", "bold red",
// "red_bold"), "gray" and a bare palette index ("208").
func Parse(name string) (Style, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	if strings.HasPrefix(norm, "bold-") {
		norm = strings.TrimPrefix(norm, "bold-") + "-bold"
	}

	switch norm {
	case "gray", "grey":
		return Gray, nil
	}
	for i, n := range names {
		if n == norm {
			return Style(i), nil
		}
	}
	if n, err := strconv.ParseUint(norm, 10, 8); err == nil {
		return Indexed(uint8(n)), nil
	}
	return Reset, fmt.Errorf("unknown style %q", name)
}
