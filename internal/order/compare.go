package order

import (
	"bytes"
	"slices"
	"time"

	"fls/internal/config"
	"fls/pkg/types"
)

// CompareNames is VersionCompare with a plain byte comparison as the final
// tie-break, which makes it a total order.
func CompareNames(a, b []byte) int {
	if c := VersionCompare(a, b); c != 0 {
		return c
	}
	return bytes.Compare(a, b)
}

// Comparator orders ListItems by one field. Size and time sort largest and
// newest first, then by name. Reverse flips the whole result, tie-break
// included.
type Comparator struct {
	Field   config.SortField
	Reverse bool
	// Blocks sorts Size by allocated blocks instead of bytes.
	Blocks bool
}

// NewComparator builds the comparator for the run's options.
func NewComparator(opts *config.Options) Comparator {
	return Comparator{Field: opts.Sort, Reverse: opts.Reverse, Blocks: opts.SizeInBlocks}
}

// Compare returns a negative number when a sorts before b.
func (c Comparator) Compare(a, b *types.ListItem) int {
	r := c.compare(a, b)
	if c.Reverse {
		return -r
	}
	return r
}

func (c Comparator) compare(a, b *types.ListItem) int {
	switch c.Field {
	case config.SortSize:
		sa, sb := c.size(a), c.size(b)
		if sa != sb {
			if sa > sb {
				return -1
			}
			return 1
		}
	case config.SortTime:
		ta, tb := timeOf(a), timeOf(b)
		if !ta.Equal(tb) {
			if ta.After(tb) {
				return -1
			}
			return 1
		}
	}
	return CompareNames(a.Name, b.Name)
}

func (c Comparator) size(it *types.ListItem) int64 {
	if it.Status == nil {
		return 0
	}
	if c.Blocks {
		return it.Status.Blocks
	}
	return it.Status.Size
}

func timeOf(it *types.ListItem) time.Time {
	if it.Status == nil {
		return time.Time{}
	}
	return it.Status.Time
}

// Sort orders items in place. SortNone keeps directory order.
func (c Comparator) Sort(items []types.ListItem) {
	if c.Field == config.SortNone {
		if c.Reverse {
			slices.Reverse(items)
		}
		return
	}
	slices.SortFunc(items, func(a, b types.ListItem) int {
		return c.Compare(&a, &b)
	})
}
