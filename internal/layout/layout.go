// Package layout computes the column-major grid used for multi-column
// listings.
package layout

// Gutter is the spacing between grid columns.
const Gutter = 2

// candidate is one column count being simulated.
type candidate struct {
	rows    int
	widths  []int
	total   int
	dropped bool
}

// Layout picks the fewest rows (most columns) such that the items, laid out
// column-major, fit in termWidth. The returned column widths include the
// gutter for every column but the last. An empty list yields zero rows.
//
// Every candidate column count is simulated in one pass over widths; a
// candidate is dropped as soon as its running width exceeds termWidth. If
// none survives the result is a single column.
func Layout(widths []int, termWidth int) (rows int, columnWidths []int) {
	n := len(widths)
	if n == 0 {
		return 0, nil
	}

	minWidth, maxWidth := widths[0], widths[0]
	for _, w := range widths[1:] {
		minWidth = min(minWidth, w)
		maxWidth = max(maxWidth, w)
	}
	// Each extra column costs at least the narrowest item plus a gutter.
	maxColumns := min(n, (termWidth+Gutter)/(max(minWidth, 1)+Gutter))

	candidates := make([]*candidate, 0, max(maxColumns-1, 0))
	prevRows := n
	for c := 2; c <= maxColumns; c++ {
		r := (n + c - 1) / c
		if r == prevRows {
			// Same row count as a narrower candidate, same layout.
			continue
		}
		prevRows = r
		candidates = append(candidates, &candidate{
			rows:   r,
			widths: make([]int, (n+r-1)/r),
		})
		if r == 1 {
			break
		}
	}

	live := len(candidates)
	for i, w := range widths {
		if live == 0 {
			break
		}
		for _, cand := range candidates {
			if cand.dropped {
				continue
			}
			col := i / cand.rows
			if col > 0 && i%cand.rows == 0 {
				cand.total += Gutter
			}
			if w > cand.widths[col] {
				cand.total += w - cand.widths[col]
				cand.widths[col] = w
			}
			if cand.total > termWidth {
				cand.dropped = true
				live--
			}
		}
	}

	var best *candidate
	for _, cand := range candidates {
		if !cand.dropped && (best == nil || cand.rows < best.rows) {
			best = cand
		}
	}
	if best == nil {
		return n, []int{maxWidth}
	}

	columnWidths = best.widths
	for c := 0; c < len(columnWidths)-1; c++ {
		columnWidths[c] += Gutter
	}
	return best.rows, columnWidths
}
