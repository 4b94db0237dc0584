package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"fls/internal/clock"
	"fls/internal/config"
	"fls/internal/errors"
	"fls/internal/idmap"
	"fls/internal/style"
	"fls/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

var now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	links map[string]string
	calls int
}

func (f *fakeSource) Access(name []byte, mode uint32) error {
	f.calls++
	return errors.FromErrno("cannot access", string(name), unix.EACCES)
}

func (f *fakeSource) Lstat(name []byte) (*types.Status, error) {
	f.calls++
	return &types.Status{Mode: types.ModeRegular | 0o644}, nil
}

func (f *fakeSource) Readlink(name []byte, buf []byte) ([]byte, error) {
	target, ok := f.links[string(name)]
	if !ok {
		return nil, errors.FromErrno("cannot read symbolic link", string(name), unix.EINVAL)
	}
	return buf[:copy(buf, target)], nil
}

type recordingReporter struct {
	errs []error
}

func (r *recordingReporter) Report(err error) {
	r.errs = append(r.errs, err)
}

func newRenderer(t *testing.T, opts config.Options) (*Renderer, *bytes.Buffer, *recordingReporter) {
	t.Helper()
	out := &bytes.Buffer{}
	rep := &recordingReporter{}
	w := NewWriter(out, opts.Color)
	r := NewRenderer(w, &opts, style.NewClassifier(nil, &opts), idmap.Empty(), clock.New(time.UTC, now), rep)
	return r, out, rep
}

func render(t *testing.T, r *Renderer, out *bytes.Buffer, items []types.ListItem, src Source) string {
	t.Helper()
	r.Render(items, src)
	require.NoError(t, r.Writer().Close())
	return out.String()
}

func named(names ...string) []types.ListItem {
	items := make([]types.ListItem, len(names))
	for i, n := range names {
		items[i] = types.ListItem{Name: []byte(n), Type: types.DTypeRegular, Inode: uint64(i + 1)}
	}
	return items
}

func TestGrid(t *testing.T) {
	t.Run("two by two at width 20", func(t *testing.T) {
		r, out, _ := newRenderer(t, config.DefaultOptions(20))
		got := render(t, r, out, named("aaaa", "bbbb", "cccc", "dddd"), &fakeSource{})
		assert.Equal(t, "aaaa  cccc\nbbbb  dddd\n", got)
	})

	t.Run("single row when everything fits", func(t *testing.T) {
		r, out, _ := newRenderer(t, config.DefaultOptions(80))
		got := render(t, r, out, named("a", "bb", "ccc"), &fakeSource{})
		assert.Equal(t, "a  bb  ccc\n", got)
	})

	t.Run("uneven last column has no trailing padding", func(t *testing.T) {
		r, out, _ := newRenderer(t, config.DefaultOptions(12))
		got := render(t, r, out, named("one", "two", "three", "four", "five"), &fakeSource{})
		assert.Equal(t, "one    four\ntwo    five\nthree\n", got)
	})

	t.Run("narrow terminal falls back to one column", func(t *testing.T) {
		r, out, _ := newRenderer(t, config.DefaultOptions(3))
		got := render(t, r, out, named("alpha", "beta"), &fakeSource{})
		assert.Equal(t, "alpha\nbeta\n", got)
	})

	t.Run("inode prefix counts toward width", func(t *testing.T) {
		opts := config.DefaultOptions(80)
		opts.Inode = true
		r, out, _ := newRenderer(t, opts)
		got := render(t, r, out, named("a", "b"), &fakeSource{})
		assert.Equal(t, "1 a  2 b\n", got)
	})

	t.Run("empty list writes nothing", func(t *testing.T) {
		r, out, _ := newRenderer(t, config.DefaultOptions(80))
		assert.Empty(t, render(t, r, out, nil, &fakeSource{}))
	})
}

func TestGridColorResetsEachRow(t *testing.T) {
	opts := config.DefaultOptions(20)
	opts.Color = true
	r, out, _ := newRenderer(t, opts)
	items := named("aaaa", "bbbb", "cccc", "dddd")
	for i := range items {
		items[i].Type = types.DTypeDir
	}
	got := render(t, r, out, items, &fakeSource{})

	blue := string(style.BlueBold.Bytes())
	reset := string(style.Reset.Bytes())
	assert.Equal(t, blue+"aaaa  cccc"+reset+"\n"+blue+"bbbb  dddd"+reset+"\n", got)
}

func TestSingleColumn(t *testing.T) {
	opts := config.DefaultOptions(80)
	opts.Display = config.SingleColumn
	opts.Suffixes = config.SuffixDirectories
	r, out, _ := newRenderer(t, opts)

	items := named("a.txt", "dir")
	items[1].Type = types.DTypeDir
	got := render(t, r, out, items, &fakeSource{})
	assert.Equal(t, "a.txt\ndir/\n", got)
}

func TestStream(t *testing.T) {
	opts := config.DefaultOptions(80)
	opts.Display = config.Stream
	r, out, _ := newRenderer(t, opts)

	got := render(t, r, out, named("a", "b", "c"), &fakeSource{})
	assert.Equal(t, "a, b, c\n", got)
}

func TestStreamColorStylesLastEntry(t *testing.T) {
	opts := config.DefaultOptions(80)
	opts.Display = config.Stream
	opts.Color = true
	r, out, _ := newRenderer(t, opts)

	items := named("x", "y")
	for i := range items {
		items[i].Type = types.DTypeDir
	}
	got := render(t, r, out, items, &fakeSource{})

	blue, white, reset := string(style.BlueBold.Bytes()), string(style.White.Bytes()), string(style.Reset.Bytes())
	assert.Equal(t, blue+"x"+white+", "+blue+"y"+reset+"\n", got)
}

func TestSanitizedNames(t *testing.T) {
	opts := config.DefaultOptions(80)
	opts.Display = config.SingleColumn
	opts.ReplaceUnprintable = true
	r, out, _ := newRenderer(t, opts)

	got := render(t, r, out, named("bad\nname"), &fakeSource{})
	assert.Equal(t, "bad?name\n", got)
}

func withStatus(name string, mode uint32, size int64, mtime time.Time) types.ListItem {
	return types.ListItem{
		Name: []byte(name),
		Status: &types.Status{
			Inode:  7,
			Links:  1,
			Mode:   mode,
			Size:   size,
			Blocks: (size + 511) / 512,
			UID:    1000,
			GID:    100,
			Time:   mtime,
		},
	}
}

func longOptions() config.Options {
	opts := config.DefaultOptions(80)
	opts.Display = config.Long
	return opts
}

func TestLong(t *testing.T) {
	recent := now.Add(-110 * time.Minute)
	old := time.Date(2020, time.January, 5, 8, 0, 0, 0, time.UTC)

	t.Run("aligned columns", func(t *testing.T) {
		r, out, _ := newRenderer(t, longOptions())
		items := []types.ListItem{
			withStatus("dir", types.ModeDir|0o755, 4096, recent),
			withStatus("file.txt", types.ModeRegular|0o644, 42, old),
		}
		items[0].Status.Links = 12
		got := render(t, r, out, items, &fakeSource{})

		want := "drwxr-xr-x 12 1000 100 4096 Jun 15 10:10 dir\n" +
			"-rw-r--r--  1 1000 100   42 Jan  5  2020 file.txt\n"
		assert.Equal(t, want, got)
	})

	t.Run("symlink target", func(t *testing.T) {
		r, out, _ := newRenderer(t, longOptions())
		items := []types.ListItem{withStatus("link", types.ModeSymlink|0o777, 6, recent)}
		got := render(t, r, out, items, &fakeSource{links: map[string]string{"link": "target"}})

		assert.Equal(t, "lrwxrwxrwx 1 1000 100 6 Jun 15 10:10 link -> target\n", got)
	})

	t.Run("unreadable link is reported", func(t *testing.T) {
		r, out, rep := newRenderer(t, longOptions())
		items := []types.ListItem{withStatus("link", types.ModeSymlink|0o777, 6, recent)}
		got := render(t, r, out, items, &fakeSource{})

		assert.Equal(t, "lrwxrwxrwx 1 1000 100 6 Jun 15 10:10 link\n", got)
		require.Len(t, rep.errs, 1)
	})

	t.Run("special permission bits", func(t *testing.T) {
		r, out, _ := newRenderer(t, longOptions())
		items := []types.ListItem{
			withStatus("a", types.ModeRegular|0o4755, 0, recent),
			withStatus("b", types.ModeRegular|0o2644, 0, recent),
			withStatus("c", types.ModeDir|0o1777, 0, recent),
			withStatus("d", types.ModeFifo|0o600, 0, recent),
		}
		got := render(t, r, out, items, &fakeSource{})

		lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
		require.Len(t, lines, 4)
		assert.True(t, strings.HasPrefix(lines[0], "-rwsr-xr-x "))
		assert.True(t, strings.HasPrefix(lines[1], "-rw-r-Sr-- "))
		assert.True(t, strings.HasPrefix(lines[2], "drwxrwxrwt "))
		assert.True(t, strings.HasPrefix(lines[3], "prw------- "))
	})

	t.Run("owner and group columns", func(t *testing.T) {
		opts := longOptions()
		opts.PrintOwner = false
		opts.Inode = true
		r, out, _ := newRenderer(t, opts)
		got := render(t, r, out, []types.ListItem{withStatus("f", types.ModeRegular|0o600, 1, recent)}, &fakeSource{})

		assert.Equal(t, "7 -rw------- 1 100 1 Jun 15 10:10 f\n", got)
	})

	t.Run("entries without status are skipped", func(t *testing.T) {
		r, out, _ := newRenderer(t, longOptions())
		items := append(named("ghost"), withStatus("real", types.ModeRegular|0o644, 3, recent))
		got := render(t, r, out, items, &fakeSource{})

		assert.Equal(t, "-rw-r--r-- 1 1000 100 3 Jun 15 10:10 real\n", got)
	})
}

func TestLongColor(t *testing.T) {
	opts := longOptions()
	opts.Color = true
	opts.PrintOwner = false
	opts.PrintGroup = false
	r, out, _ := newRenderer(t, opts)
	items := []types.ListItem{withStatus("x", types.ModeRegular|0o400, 5, now.Add(-time.Hour))}
	got := render(t, r, out, items, &fakeSource{})

	var want strings.Builder
	want.WriteString(string(style.White.Bytes()) + "-")
	want.WriteString(string(style.GreenBold.Bytes()) + "r")
	want.WriteString(string(style.Gray.Bytes()) + "--------")
	want.WriteString(" " + string(style.White.Bytes()) + "1")
	want.WriteString(" " + string(style.GreenBold.Bytes()) + "5")
	want.WriteString(" " + string(style.Blue.Bytes()) + "Jun 15 11:00")
	want.WriteString(" " + string(style.White.Bytes()) + "x")
	want.WriteString(string(style.Reset.Bytes()) + "\n")
	assert.Equal(t, want.String(), got)
}

func TestTotal(t *testing.T) {
	items := []types.ListItem{
		withStatus("a", types.ModeRegular|0o644, 1000, now),
		withStatus("b", types.ModeRegular|0o644, 3000, now),
	}

	t.Run("long mode", func(t *testing.T) {
		r, out, _ := newRenderer(t, longOptions())
		r.Total(items)
		require.NoError(t, r.Writer().Close())
		assert.Equal(t, "total 8\n", out.String())
	})

	t.Run("kilobyte units", func(t *testing.T) {
		opts := longOptions()
		opts.Kilobytes = true
		r, out, _ := newRenderer(t, opts)
		r.Total(items)
		require.NoError(t, r.Writer().Close())
		assert.Equal(t, "total 4\n", out.String())
	})

	t.Run("grid without blocks has no total", func(t *testing.T) {
		r, out, _ := newRenderer(t, config.DefaultOptions(80))
		r.Total(items)
		require.NoError(t, r.Writer().Close())
		assert.Empty(t, out.String())
	})
}

func TestBlocksPrefix(t *testing.T) {
	opts := config.DefaultOptions(80)
	opts.Display = config.SingleColumn
	opts.SizeInBlocks = true
	r, out, _ := newRenderer(t, opts)
	items := []types.ListItem{
		withStatus("small", types.ModeRegular|0o644, 100, now),
		withStatus("large", types.ModeRegular|0o644, 10000, now),
	}
	got := render(t, r, out, items, &fakeSource{})

	assert.Equal(t, " 1 small\n20 large\n", got)
}

func TestClassifyErrorsAreReported(t *testing.T) {
	opts := config.DefaultOptions(80)
	opts.Color = true
	r, out, rep := newRenderer(t, opts)
	items := named("x")
	items[0].Type = types.DTypeLink
	src := &failingProbe{}
	render(t, r, out, items, src)

	require.Len(t, rep.errs, 1)
	assert.Contains(t, rep.errs[0].Error(), "x")
	assert.Equal(t, string(style.White.Bytes())+"x"+string(style.Reset.Bytes())+"\n", out.String())
}

type failingProbe struct{ fakeSource }

func (f *failingProbe) Access(name []byte, mode uint32) error {
	return errors.FromErrno("cannot access", string(name), unix.EIO)
}
