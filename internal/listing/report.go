package listing

import (
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"

	"fls/internal/errors"
	"fls/internal/log"
	"fls/internal/output"
	"fls/internal/style"
)

// Reporter writes user-facing errors to stderr. Standard output is flushed
// first so messages appear in order with the listing.
type Reporter struct {
	out    *output.Writer
	stderr io.Writer
	status *errors.ExitStatus
}

// NewReporter returns a Reporter that flushes out before writing to stderr.
func NewReporter(out *output.Writer, stderr io.Writer) *Reporter {
	return &Reporter{out: out, stderr: stderr, status: &errors.ExitStatus{}}
}

// Status returns the exit status accumulated from reported errors.
func (r *Reporter) Status() *errors.ExitStatus {
	return r.status
}

// Report prints err and records it in the exit status.
func (r *Reporter) Report(err error) {
	if err == nil {
		return
	}
	r.status.Record(err)
	log.LogWithError(err).Debug("listing error")
	r.print(describe(err))
}

// Notice prints a message that does not affect the exit status.
func (r *Reporter) Notice(msg string) {
	r.print(msg)
}

func (r *Reporter) print(msg string) {
	r.out.Style(style.Reset)
	r.out.Flush()
	fmt.Fprintf(r.stderr, "fls: %s\n", msg)
}

// describe formats err as "<context> '<path>': <strerror> (os error <n>)".
func describe(err error) string {
	var fe *errors.FileError
	if !errors.As(err, &fe) {
		return err.Error()
	}
	if errno, ok := errors.Errno(err); ok {
		return fmt.Sprintf("%s '%s': %s (os error %d)", fe.Message(), fe.Path(), capitalize(errno.Error()), int(errno))
	}
	if cause := fe.Unwrap(); cause != nil {
		return fmt.Sprintf("%s '%s': %v", fe.Message(), fe.Path(), cause)
	}
	return fmt.Sprintf("%s '%s'", fe.Message(), fe.Path())
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
