// Package filter decides which directory entries are listed: the show-all
// policy, --hide and --ignore glob patterns, and optional .gitignore rules.
package filter

import (
	"fmt"
	"path/filepath"

	"fls/internal/config"
	"fls/internal/errors"
	"fls/internal/fsys"
	"fls/internal/log"
	"fls/pkg/types"

	"github.com/gobwas/glob"
)

// Filter drops entries from directory listings. A nil *Filter applies only
// the default show-all policy.
type Filter struct {
	showAll config.ShowAll
	hide    []glob.Glob
	ignore  []glob.Glob
	git     *gitignoreCache
}

// New compiles the hide and ignore patterns. Hide patterns only apply when
// neither -a nor -A is given; ignore patterns always apply.
func New(showAll config.ShowAll, hide, ignore []string, gitignore bool) (*Filter, error) {
	f := &Filter{showAll: showAll}
	var err error
	if f.hide, err = compile("hide", hide); err != nil {
		return nil, err
	}
	if f.ignore, err = compile("ignore", ignore); err != nil {
		return nil, err
	}
	if gitignore {
		f.git = newGitignoreCache()
	}
	return f, nil
}

func compile(param string, patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("invalid pattern %q", p), param, errors.InvalidArgument, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Keep reports whether an entry of dir is listed.
func (f *Filter) Keep(dir string, it *types.ListItem) bool {
	switch f.policy() {
	case config.ShowAllNo:
		if it.IsHidden() {
			return false
		}
	case config.ShowAllAlmost:
		if it.IsDotOrDotDot() {
			return false
		}
	}
	if f == nil {
		return true
	}

	name := string(it.Name)
	for _, g := range f.ignore {
		if g.Match(name) {
			return false
		}
	}
	if f.showAll == config.ShowAllNo {
		for _, g := range f.hide {
			if g.Match(name) {
				return false
			}
		}
	}
	if f.git != nil && !it.IsDotOrDotDot() && f.git.ignored(dir, name, resolveDir(dir, it)) {
		return false
	}
	return true
}

// resolveDir reports whether it is a directory, probing with lstat when the
// directory read gave no type. The probed type is kept on the item.
func resolveDir(dir string, it *types.ListItem) bool {
	if it.Kind() != types.DTypeUnknown {
		return it.IsDir()
	}
	st, err := fsys.Cwd().Lstat([]byte(filepath.Join(dir, string(it.Name))))
	if err != nil {
		log.LogWithError(err).Debug("cannot resolve entry type for gitignore")
		return false
	}
	it.Type = st.DType()
	return it.Type == types.DTypeDir
}

// Apply filters items in place and returns the kept prefix.
func (f *Filter) Apply(dir string, items []types.ListItem) []types.ListItem {
	kept := items[:0]
	for i := range items {
		if f.Keep(dir, &items[i]) {
			kept = append(kept, items[i])
		}
	}
	return kept
}

func (f *Filter) policy() config.ShowAll {
	if f == nil {
		return config.ShowAllNo
	}
	return f.showAll
}
