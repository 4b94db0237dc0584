// Package order sorts listed entries by name, size or time.
package order

func isDigit(s []byte, i int) bool {
	return i < len(s) && '0' <= s[i] && s[i] <= '9'
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// at returns the lowercased byte at i, or -1 past the end so that a
// shorter string orders first.
func at(s []byte, i int) int {
	if i < len(s) {
		return int(lower(s[i]))
	}
	return -1
}

// VersionCompare orders names naturally: runs of digits compare by numeric
// value and everything else compares byte by byte ignoring ASCII case, so
// "file2" sorts before "file10". It returns -1, 0 or 1.
//
// Names that differ only in case or in leading zeros compare equal; use
// Compare for a total order.
func VersionCompare(a, b []byte) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		for (i < len(a) && !isDigit(a, i)) || (j < len(b) && !isDigit(b, j)) {
			ca, cb := at(a, i), at(b, j)
			if ca != cb {
				if ca < cb {
					return -1
				}
				return 1
			}
			i++
			j++
		}

		// An exhausted name sorts first, even against a run of zeros.
		switch {
		case i >= len(a) && j >= len(b):
			return 0
		case i >= len(a):
			return -1
		case j >= len(b):
			return 1
		}

		for i < len(a) && a[i] == '0' {
			i++
		}
		for j < len(b) && b[j] == '0' {
			j++
		}

		// Equal-length runs are decided by the first differing digit.
		firstDiff := 0
		for isDigit(a, i) && isDigit(b, j) {
			if firstDiff == 0 && a[i] != b[j] {
				if a[i] < b[j] {
					firstDiff = -1
				} else {
					firstDiff = 1
				}
			}
			i++
			j++
		}
		// A longer run is a larger number.
		if isDigit(a, i) {
			return 1
		}
		if isDigit(b, j) {
			return -1
		}
		if firstDiff != 0 {
			return firstDiff
		}
	}
	return 0
}
