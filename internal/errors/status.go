package errors

import "errors"

// Exit codes that do not come from an errno.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitStatus accumulates failures over a run. The final code is derived
// from the last recorded error, not the first.
type ExitStatus struct {
	code     int
	failures int
}

// Record notes a failure. Nil errors are ignored.
func (s *ExitStatus) Record(err error) {
	if err == nil {
		return
	}
	s.failures++
	s.code = CodeOf(err)
}

// Failures returns how many errors were recorded.
func (s *ExitStatus) Failures() int {
	return s.failures
}

// Code returns the process exit code for the run.
func (s *ExitStatus) Code() int {
	return s.code
}

// CodeOf maps an error to an exit code: the errno when there is one,
// ExitUsage for configuration and argument errors, ExitFailure otherwise.
func CodeOf(err error) int {
	if err == nil {
		return ExitOK
	}
	if errno, ok := Errno(err); ok && errno != 0 {
		code := int(errno)
		if code > 255 {
			code = ExitFailure
		}
		return code
	}
	if IsInvalidConfig(err) {
		return ExitUsage
	}
	var appErr interface{ Kind() ErrorKind }
	if errors.As(err, &appErr) && appErr.Kind() == InvalidArgument {
		return ExitUsage
	}
	return ExitFailure
}
