// Package errs is the error vocabulary shared by the search packages.
//
// It re-exports the parts of github.com/cockroachdb/errors the module uses
// (stack-carrying New/Wrap, hints, Is/As) and defines the two failure kinds a
// search can report:
//
//	EncodingError     textual input could not be decoded into codepoints
//	TypeMismatchError pattern and text are of different element kinds
//
// Both match their sentinels with errors.Is:
//
//	if errs.Is(err, errs.ErrEncoding) { ... }
package errs

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

var (
	New         = crdb.New
	Newf        = crdb.Newf
	Wrap        = crdb.Wrap
	Wrapf       = crdb.Wrapf
	WithStack   = crdb.WithStack
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetailf = crdb.WithDetailf
)

var (
	Is          = crdb.Is
	As          = crdb.As
	Unwrap      = crdb.Unwrap
	GetAllHints = crdb.GetAllHints
)

// Sentinels. Wrap them to add context; callers test with Is.
var (
	ErrEncoding     = New("malformed encoding")
	ErrTypeMismatch = New("element kind mismatch")
)

// EncodingError reports textual input that is not a valid codepoint
// sequence. Offset is the byte offset of the first undecodable unit.
type EncodingError struct {
	Encoding string
	Offset   int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("invalid %s at byte offset %d", e.Encoding, e.Offset)
}

func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }

// TypeMismatchError reports a pattern and text of different element kinds.
type TypeMismatchError struct {
	Pattern string
	Text    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("pattern is %s but text is %s", e.Pattern, e.Text)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// Encoding returns an EncodingError with a stack attached.
func Encoding(encoding string, offset int) error {
	return WithStack(&EncodingError{Encoding: encoding, Offset: offset})
}

// TypeMismatch returns a TypeMismatchError with a stack attached.
func TypeMismatch(pattern, text fmt.Stringer) error {
	return WithStack(&TypeMismatchError{Pattern: pattern.String(), Text: text.String()})
}
