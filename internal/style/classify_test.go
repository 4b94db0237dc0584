package style

import (
	"syscall"
	"testing"

	"fls/internal/config"
	"fls/internal/errors"
	"fls/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProber answers probes from fixed tables and counts every call.
type fakeProber struct {
	access map[string]syscall.Errno
	lstat  map[string]uint32
	calls  int
}

func (f *fakeProber) Access(name []byte, mode uint32) error {
	f.calls++
	if errno, ok := f.access[string(name)]; ok && errno != 0 {
		return errors.FromErrno("cannot access", string(name), errno)
	}
	return nil
}

func (f *fakeProber) Lstat(name []byte) (*types.Status, error) {
	f.calls++
	mode, ok := f.lstat[string(name)]
	if !ok {
		return nil, errors.FromErrno("cannot access", string(name), syscall.ENOENT)
	}
	return &types.Status{Mode: mode}, nil
}

func classifier(color bool, suffixes config.SuffixPolicy) *Classifier {
	opts := config.DefaultOptions(80)
	opts.Color = color
	opts.Suffixes = suffixes
	return NewClassifier(DefaultTable(), &opts)
}

func item(name string, typ types.DType) *types.ListItem {
	return &types.ListItem{Name: []byte(name), Type: typ}
}

func TestClassifyFromDirectoryHint(t *testing.T) {
	prober := &fakeProber{access: map[string]syscall.Errno{
		"plain.txt":      syscall.EACCES,
		"archive.tar.gz": syscall.EACCES,
		"dangling":       syscall.ENOENT,
		"loop":           syscall.ELOOP,
	}}
	c := classifier(true, config.SuffixAll)

	tests := []struct {
		item   *types.ListItem
		style  Style
		suffix byte
		calls  int
	}{
		{item("dir", types.DTypeDir), BlueBold, '/', 0},
		{item("pipe", types.DTypeFifo), YellowBold, '|', 0},
		{item("sock", types.DTypeSocket), YellowBold, 0, 0},
		{item("tty", types.DTypeChar), YellowBold, 0, 0},
		{item("run.sh", types.DTypeRegular), GreenBold, '*', 1},
		{item("plain.txt", types.DTypeRegular), White, 0, 1},
		{item("archive.tar.gz", types.DTypeRegular), Red, 0, 1},
		{item("link", types.DTypeLink), CyanBold, '@', 1},
		{item("dangling", types.DTypeLink), RedBold, '@', 1},
		{item("loop", types.DTypeLink), RedBold, '@', 1},
	}

	for _, tc := range tests {
		t.Run(string(tc.item.Name), func(t *testing.T) {
			prober.calls = 0
			s, suffix, err := c.Classify(tc.item, prober)
			require.NoError(t, err)
			assert.Equal(t, tc.style, s)
			assert.Equal(t, tc.suffix, suffix)
			assert.Equal(t, tc.calls, prober.calls, "syscall budget")
		})
	}
}

func TestClassifyBrokenLinkSuffixPolicy(t *testing.T) {
	prober := &fakeProber{access: map[string]syscall.Errno{"dangling": syscall.ENOENT}}

	s, suffix, err := classifier(true, config.SuffixAll).Classify(item("dangling", types.DTypeLink), prober)
	require.NoError(t, err)
	assert.Equal(t, RedBold, s)
	assert.Equal(t, byte('@'), suffix)

	s, suffix, err = classifier(true, config.SuffixDirectories).Classify(item("dangling", types.DTypeLink), prober)
	require.NoError(t, err)
	assert.Equal(t, RedBold, s)
	assert.Zero(t, suffix)

	_, suffix, _ = classifier(true, config.SuffixDirectories).Classify(item("d", types.DTypeDir), prober)
	assert.Equal(t, byte('/'), suffix)
}

func TestClassifyFromStatus(t *testing.T) {
	prober := &fakeProber{}
	c := classifier(true, config.SuffixAll)

	tests := []struct {
		name   string
		mode   uint32
		style  Style
		suffix byte
	}{
		{"d", types.ModeDir | 0o755, BlueBold, '/'},
		{"exe", types.ModeRegular | 0o755, GreenBold, '*'},
		{"pic.png", types.ModeRegular | 0o644, Magenta, 0},
		{"l", types.ModeSymlink | 0o777, CyanBold, '@'},
		{"p", types.ModeFifo | 0o644, YellowBold, '|'},
		{"blk", types.ModeBlock | 0o660, YellowBold, 0},
		{"odd", 0, White, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			it := &types.ListItem{Name: []byte(tc.name), Type: types.DTypeUnknown, Status: &types.Status{Mode: tc.mode}}
			s, suffix, err := c.Classify(it, prober)
			require.NoError(t, err)
			assert.Equal(t, tc.style, s)
			assert.Equal(t, tc.suffix, suffix)
		})
	}
	assert.Zero(t, prober.calls, "stat data needs no probes")
}

func TestClassifyUnknownType(t *testing.T) {
	prober := &fakeProber{lstat: map[string]uint32{
		"dir":  types.ModeDir | 0o755,
		"link": types.ModeSymlink | 0o777,
	}}
	c := classifier(true, config.SuffixAll)

	s, suffix, err := c.Classify(item("dir", types.DTypeUnknown), prober)
	require.NoError(t, err)
	assert.Equal(t, BlueBold, s)
	assert.Equal(t, byte('/'), suffix)
	assert.Equal(t, 1, prober.calls)

	prober.calls = 0
	s, _, err = c.Classify(item("link", types.DTypeUnknown), prober)
	require.NoError(t, err)
	assert.Equal(t, CyanBold, s)
	assert.Equal(t, 1, prober.calls, "one lstat, no access probe")

	s, _, err = c.Classify(item("vanished", types.DTypeUnknown), prober)
	require.Error(t, err)
	assert.Equal(t, White, s)
}

func TestClassifyWithoutColor(t *testing.T) {
	prober := &fakeProber{}

	s, suffix, err := classifier(false, config.SuffixNone).Classify(item("run.sh", types.DTypeRegular), prober)
	require.NoError(t, err)
	assert.Equal(t, Reset, s)
	assert.Zero(t, suffix)
	assert.Zero(t, prober.calls)

	// Directory suffixes still work without color and without probes
	_, suffix, _ = classifier(false, config.SuffixDirectories).Classify(item("d", types.DTypeDir), prober)
	assert.Equal(t, byte('/'), suffix)
	_, suffix, _ = classifier(false, config.SuffixDirectories).Classify(item("f", types.DTypeRegular), prober)
	assert.Zero(t, suffix)
	assert.Zero(t, prober.calls)

	// Full suffixes need the executable probe
	_, suffix, _ = classifier(false, config.SuffixAll).Classify(item("run.sh", types.DTypeRegular), prober)
	assert.Equal(t, byte('*'), suffix)
	assert.Equal(t, 1, prober.calls)
}

func TestClassifyProbeFailure(t *testing.T) {
	prober := &fakeProber{access: map[string]syscall.Errno{"gone": syscall.ENOENT}}
	s, suffix, err := classifier(true, config.SuffixAll).Classify(item("gone", types.DTypeRegular), prober)
	require.Error(t, err)
	assert.True(t, errors.IsFileNotFound(err))
	assert.Equal(t, White, s)
	assert.Zero(t, suffix)
}
