// Package errs is the error taxonomy of spec.md §7: one ErrorType enum
// plus a single contextual wrapper, generalized from the teacher's
// per-kind error struct family into one type with a Kind field.
package errs

import "fmt"

// Kind tags which bucket of spec.md §7's taxonomy an error belongs to.
type Kind string

const (
	Config             Kind = "config"              // fatal at startup
	Parse              Kind = "parse"                // per-file, non-fatal
	ResolutionMiss     Kind = "resolution_miss"       // expected, not an error
	Embedding          Kind = "embedding"             // per-batch
	Store              Kind = "store"                 // per-operation
	InvariantViolation Kind = "invariant_violation"   // fatal, bug-class
)

// Error is the single contextual wrapper every taxonomy member uses;
// Kind distinguishes the buckets spec.md §7 separates by struct in
// the teacher's own error package.
type Error struct {
	Kind       Kind
	Op         string // what was being attempted, e.g. "parse", "embed content"
	FilePath   string // optional, set by WithFile
	Underlying error
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Op: msg}
}

func Wrap(kind Kind, err error, op string) *Error {
	return &Error{Kind: kind, Op: op, Underlying: err}
}

// WithFile attaches the file path an error occurred against, for
// per-file, non-fatal ParseErrors and similar.
func (e *Error) WithFile(path string) *Error {
	e.FilePath = path
	return e
}

func (e *Error) Error() string {
	if e.FilePath != "" {
		if e.Underlying != nil {
			return fmt.Sprintf("%s: %s (%s): %v", e.Kind, e.Op, e.FilePath, e.Underlying)
		}
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Op, e.FilePath)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Op)
}

func (e *Error) Unwrap() error { return e.Underlying }

// Is reports whether err is an *Error of kind k, for errors.Is(err,
// errs.Of(kind)) style checks at call sites that only care about the
// bucket.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Op == "" && t.Underlying == nil
}

// Of constructs a bare sentinel usable with errors.Is to test only a
// Kind, ignoring Op/Underlying/FilePath.
func Of(kind Kind) *Error { return &Error{Kind: kind} }
