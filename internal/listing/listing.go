// Package listing drives a run: it sorts command-line arguments into files
// and directories, reads and filters each directory, and hands the entries
// to the renderer, recursing with a cycle guard when asked to.
package listing

import (
	"strings"

	"fls/internal/config"
	"fls/internal/errors"
	"fls/internal/filter"
	"fls/internal/fsys"
	"fls/internal/log"
	"fls/internal/order"
	"fls/internal/output"
	"fls/internal/style"
	"fls/pkg/types"

	"golang.org/x/sys/unix"
)

// Lister lists paths with one set of options.
type Lister struct {
	opts       *config.Options
	renderer   *output.Renderer
	out        *output.Writer
	filter     *filter.Filter
	comparator order.Comparator
	reporter   *Reporter

	needsDetails bool
	headers      bool
	printed      bool
	visits       visitStack
}

// New returns a Lister writing through r. rep should be the reporter the
// renderer was built with so every error lands in one exit status.
func New(opts *config.Options, r *output.Renderer, f *filter.Filter, rep *Reporter) *Lister {
	return &Lister{
		opts:         opts,
		renderer:     r,
		out:          r.Writer(),
		filter:       f,
		comparator:   order.NewComparator(opts),
		reporter:     rep,
		needsDetails: opts.NeedsDetails(),
	}
}

// Run lists every path, the current directory when none is given, and
// returns the exit status of the run. Output is flushed before returning.
func (l *Lister) Run(paths []string) *errors.ExitStatus {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	l.headers = len(paths) > 1 || l.opts.Recurse
	l.printed = false
	log.LogWithFields(
		log.F("display", l.opts.Display.String()),
		log.F("needs_details", l.needsDetails),
		log.F("paths", len(paths)),
	).Debug("listing")

	// Directory arguments are opened one at a time, when their turn comes.
	var files []types.ListItem
	var dirs []string
	for _, p := range paths {
		if item, ok := l.asFile(p); ok {
			if item != nil {
				files = append(files, *item)
			}
			continue
		}
		st, err := fsys.Cwd().Stat([]byte(p), true, l.opts.Time)
		switch {
		case err == nil && st.Type() == types.ModeDir:
			dirs = append(dirs, p)
		case err == nil, errors.IsFileNotFound(err) && l.isSymlink(p):
			if item := l.fileItem(p); item != nil {
				files = append(files, *item)
			}
		default:
			l.reporter.Report(accessError(p, err))
		}
	}

	if len(files) > 0 {
		l.comparator.Sort(files)
		l.renderer.Render(files, fsys.Cwd())
		l.printed = true
	}
	for _, p := range dirs {
		d, err := fsys.Open(p)
		if err != nil {
			l.reporter.Report(accessError(p, err))
			continue
		}
		l.listDirectory(d)
	}

	status := l.reporter.Status()
	if err := l.out.Close(); err != nil {
		status.Record(err)
	}
	log.LogWithFields(
		log.F("failures", status.Failures()),
		log.F("exit_code", status.Code()),
	).Debug("listing finished")
	return status
}

// asFile decides whether p is listed as a file without being opened. The
// returned item is nil when p could not be examined.
func (l *Lister) asFile(p string) (*types.ListItem, bool) {
	if !l.opts.ListDirectoryContents {
		return l.fileItem(p), true
	}
	if l.opts.Follow != config.FollowNever {
		return nil, false
	}
	st, err := fsys.Cwd().Lstat([]byte(p))
	if err != nil {
		l.reporter.Report(accessError(p, err))
		return nil, true
	}
	if st.Type() == types.ModeSymlink {
		return l.fileItem(p), true
	}
	return nil, false
}

func (l *Lister) isSymlink(p string) bool {
	st, err := fsys.Cwd().Lstat([]byte(p))
	return err == nil && st.Type() == types.ModeSymlink
}

// fileItem builds the synthetic entry for a file named on the command line.
func (l *Lister) fileItem(p string) *types.ListItem {
	item := &types.ListItem{Name: []byte(p)}
	if !l.needsDetails && !l.opts.Inode {
		return item
	}
	follow := l.opts.Follow != config.FollowNever
	st, err := fsys.Cwd().Stat(item.Name, follow, l.opts.Time)
	if err != nil && follow && errors.IsFileNotFound(err) {
		// Dangling symlink: show the link itself.
		st, err = fsys.Cwd().Stat(item.Name, false, l.opts.Time)
	}
	if err != nil {
		l.reporter.Report(accessError(p, err))
		return nil
	}
	item.Status = st
	item.Inode = st.Inode
	item.Type = st.DType()
	return item
}

// listDirectory lists d and, when recursing, its subdirectories. d is
// closed before returning.
func (l *Lister) listDirectory(d *fsys.Dir) {
	path := d.Path()
	dev, ino, err := d.Identity()
	if err != nil {
		d.Close()
		l.reporter.Report(err)
		return
	}
	id := dirID{dev: dev, ino: ino}
	if !l.visits.push(id) {
		d.Close()
		log.LogWithFields(log.F("path", path)).Debug("cycle detected")
		l.reporter.Notice("not listing already-listed directory '" + path + "'")
		return
	}
	defer l.visits.pop()

	if l.printed {
		l.out.Style(style.Reset)
		l.out.WriteByte('\n')
	}
	l.printed = true
	if l.headers {
		l.out.Style(style.Reset)
		l.out.WriteString(path)
		l.out.WriteString(":\n")
	}

	items, err := d.ReadAll()
	if err != nil {
		d.Close()
		l.reporter.Report(err)
		return
	}
	items = l.filter.Apply(path, items)
	if l.needsDetails {
		l.augment(d, items)
	}
	l.comparator.Sort(items)
	l.renderer.Total(items)
	l.renderer.Render(items, d)

	var children []string
	if l.opts.Recurse {
		children = l.subdirectories(d, items)
	}
	d.Close()

	for _, child := range children {
		l.out.Flush()
		cd, err := fsys.Open(child)
		if err != nil {
			if l.opts.Follow == config.FollowAlways && followedNonDirectory(err) {
				continue
			}
			l.reporter.Report(err)
			continue
		}
		l.listDirectory(cd)
	}
}

// augment attaches stat data to every item. Failures are reported and
// leave the item without status.
func (l *Lister) augment(d *fsys.Dir, items []types.ListItem) {
	follow := l.opts.Follow == config.FollowAlways
	for i := range items {
		it := &items[i]
		st, err := d.Stat(it.Name, follow, l.opts.Time)
		if err != nil && follow && errors.IsFileNotFound(err) {
			st, err = d.Stat(it.Name, false, l.opts.Time)
		}
		if err != nil {
			l.reporter.Report(err)
			continue
		}
		it.Status = st
	}
}

// subdirectories returns the paths of the entries to recurse into.
func (l *Lister) subdirectories(d *fsys.Dir, items []types.ListItem) []string {
	var children []string
	for i := range items {
		it := &items[i]
		if it.IsDotOrDotDot() {
			continue
		}
		switch it.Kind() {
		case types.DTypeDir:
		case types.DTypeLink:
			if l.opts.Follow != config.FollowAlways {
				continue
			}
		case types.DTypeUnknown:
			st, err := d.Lstat(it.Name)
			if err != nil {
				l.reporter.Report(err)
				continue
			}
			if st.Type() != types.ModeDir && (st.Type() != types.ModeSymlink || l.opts.Follow != config.FollowAlways) {
				continue
			}
		default:
			continue
		}
		children = append(children, joinPath(d.Path(), it.Name))
	}
	return children
}

func joinPath(dir string, name []byte) string {
	if strings.HasSuffix(dir, "/") {
		return dir + string(name)
	}
	return dir + "/" + string(name)
}

// accessError rewords a failure to open or stat a command-line argument.
func accessError(p string, err error) error {
	if errors.IsFileAccessDenied(err) {
		return err
	}
	if errno, ok := errors.Errno(err); ok {
		return errors.FromErrno("cannot access", p, errno)
	}
	return err
}

// followedNonDirectory reports errors that mean a followed symlink does not
// lead to a listable directory.
func followedNonDirectory(err error) bool {
	if errors.IsNotADirectory(err) || errors.IsFileNotFound(err) {
		return true
	}
	errno, ok := errors.Errno(err)
	return ok && errno == unix.ELOOP
}
