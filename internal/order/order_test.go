package order

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"
	"time"

	"fls/internal/config"
	"fls/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"file2", "file10", -1},
		{"file10", "file2", 1},
		{"file2", "file2", 0},
		{"a", "A", 0},
		{"a", "b", -1},
		{"B", "a", 1},
		{"file02", "file2", 0},
		{"file02", "file03", -1},
		{"v1.10", "v1.9", 1},
		{"v1.9.3", "v1.10.0", -1},
		{"abc", "abcd", -1},
		{"", "a", -1},
		{"", "", 0},
		{"x9", "x10", -1},
		{"x100", "x99", 1},
		{"img12b", "img12a", 1},
		{"a.txt", "b.txt", -1},
		{"c2.txt", "c10.txt", -1},
		{"x", "X0", -1},
		{"x", "x00", -1},
		{"x0", "x00", 0},
		{"0a", "0A0", -1},
	}

	for _, tc := range tests {
		t.Run(tc.a+"_vs_"+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.want, sign(VersionCompare([]byte(tc.a), []byte(tc.b))))
			assert.Equal(t, -tc.want, sign(VersionCompare([]byte(tc.b), []byte(tc.a))))
		})
	}
}

func TestCompareNamesIsTotal(t *testing.T) {
	// Equal under the natural order, still distinct.
	assert.NotZero(t, CompareNames([]byte("a"), []byte("A")))
	assert.NotZero(t, CompareNames([]byte("f02"), []byte("f2")))
	assert.Equal(t, -sign(CompareNames([]byte("a"), []byte("A"))), sign(CompareNames([]byte("A"), []byte("a"))))
	assert.Zero(t, CompareNames([]byte("same"), []byte("same")))
}

// namesOver returns every name of up to length characters from alphabet.
func namesOver(alphabet string, length int) []string {
	names := []string{""}
	level := []string{""}
	for n := 0; n < length; n++ {
		var next []string
		for _, prefix := range level {
			for _, c := range alphabet {
				next = append(next, prefix+string(c))
			}
		}
		names = append(names, next...)
		level = next
	}
	return names
}

func TestCompareNamesIsStrictTotalOrder(t *testing.T) {
	names := namesOver("019aA._/", 3)
	require.Len(t, names, 585)

	sorted := append([]string(nil), names...)
	slices.SortFunc(sorted, func(a, b string) int { return CompareNames([]byte(a), []byte(b)) })

	// Every pair of a sorted sequence is ordered, in both directions.
	violations := 0
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			a, b := []byte(sorted[i]), []byte(sorted[j])
			if CompareNames(a, b) >= 0 || CompareNames(b, a) <= 0 {
				violations++
				if violations <= 5 {
					t.Errorf("%q sorted before %q but does not compare less", sorted[i], sorted[j])
				}
			}
		}
	}
	assert.Zero(t, violations)

	// The result does not depend on the order entries arrive in.
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 5; round++ {
		shuffled := append([]string(nil), names...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		items := itemsOf(shuffled)
		Comparator{Field: config.SortName}.Sort(items)
		require.Equal(t, sorted, namesOf(items))
	}
}

func TestTrailingZerosAgainstShorterName(t *testing.T) {
	for _, names := range [][]string{
		{"x", "x.txt", "X0"},
		{"X0", "x", "x.txt"},
		{"x.txt", "X0", "x"},
		{"x.txt", "x", "X0"},
	} {
		items := itemsOf(names)
		Comparator{Field: config.SortName}.Sort(items)
		assert.Equal(t, []string{"x", "x.txt", "X0"}, namesOf(items))
	}
}

func randomNames(r *rand.Rand, n int) []string {
	prefixes := []string{"file", "File", "img", "v", "a", "b.", "log-", ""}
	suffixes := []string{"", ".txt", ".TXT", "b", "-final", ".tar.gz"}
	seen := map[string]bool{}
	var out []string
	for len(out) < n {
		name := fmt.Sprintf("%s%d%s", prefixes[r.Intn(len(prefixes))], r.Intn(200), suffixes[r.Intn(len(suffixes))])
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func itemsOf(names []string) []types.ListItem {
	items := make([]types.ListItem, len(names))
	for i, n := range names {
		items[i] = types.ListItem{Name: []byte(n)}
	}
	return items
}

func namesOf(items []types.ListItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = string(it.Name)
	}
	return out
}

func TestSortIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	cmp := Comparator{Field: config.SortName}

	for round := 0; round < 20; round++ {
		names := randomNames(r, 60)

		first := itemsOf(names)
		cmp.Sort(first)

		again := itemsOf(namesOf(first))
		cmp.Sort(again)
		assert.Equal(t, namesOf(first), namesOf(again))

		// Any input permutation gives the same result
		shuffled := append([]string(nil), names...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		other := itemsOf(shuffled)
		cmp.Sort(other)
		require.Equal(t, namesOf(first), namesOf(other))

		for i := 1; i < len(first); i++ {
			a, b := first[i-1], first[i]
			assert.Negative(t, cmp.Compare(&a, &b))
			assert.Positive(t, cmp.Compare(&b, &a))
		}
	}
}

func TestSortByName(t *testing.T) {
	items := itemsOf([]string{"b.txt", "a.txt", "c10.txt", "c2.txt"})
	Comparator{Field: config.SortName}.Sort(items)
	assert.Equal(t, []string{"a.txt", "b.txt", "c2.txt", "c10.txt"}, namesOf(items))

	Comparator{Field: config.SortName, Reverse: true}.Sort(items)
	assert.Equal(t, []string{"c10.txt", "c2.txt", "b.txt", "a.txt"}, namesOf(items))
}

func TestSortNoneKeepsOrder(t *testing.T) {
	items := itemsOf([]string{"z", "a", "m"})
	Comparator{Field: config.SortNone}.Sort(items)
	assert.Equal(t, []string{"z", "a", "m"}, namesOf(items))

	Comparator{Field: config.SortNone, Reverse: true}.Sort(items)
	assert.Equal(t, []string{"m", "a", "z"}, namesOf(items))
}

func withStatus(name string, size, blocks int64, mtime time.Time) types.ListItem {
	return types.ListItem{
		Name:   []byte(name),
		Status: &types.Status{Size: size, Blocks: blocks, Time: mtime},
	}
}

func TestSortBySize(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	items := []types.ListItem{
		withStatus("small", 10, 8, base),
		withStatus("big", 5000, 16, base),
		withStatus("b-tie", 100, 8, base),
		withStatus("a-tie", 100, 8, base),
	}

	Comparator{Field: config.SortSize}.Sort(items)
	assert.Equal(t, []string{"big", "a-tie", "b-tie", "small"}, namesOf(items))

	// Reverse flips the tie-break too
	Comparator{Field: config.SortSize, Reverse: true}.Sort(items)
	assert.Equal(t, []string{"small", "b-tie", "a-tie", "big"}, namesOf(items))

	Comparator{Field: config.SortSize, Blocks: true}.Sort(items)
	assert.Equal(t, "big", string(items[0].Name))
}

func TestSortByTime(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	items := []types.ListItem{
		withStatus("old", 1, 0, base.Add(-time.Hour)),
		withStatus("new", 1, 0, base.Add(time.Hour)),
		withStatus("mid-b", 1, 0, base),
		withStatus("mid-a", 1, 0, base),
		{Name: []byte("unknown")},
	}

	opts := config.DefaultOptions(80)
	opts.Sort = config.SortTime
	NewComparator(&opts).Sort(items)
	assert.Equal(t, []string{"new", "mid-a", "mid-b", "old", "unknown"}, namesOf(items))
}
