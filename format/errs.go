package format

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBadFormat = errors.New("bad format")

	// ErrFormat reports malformed tags or values, unknown required
	// attributes and duplicate ids.
	ErrFormat = errors.New("format error")
	// ErrStructure reports a scene tree that cannot be assembled.
	ErrStructure = errors.New("structure error")
	// ErrDependency reports an external reference that could not be loaded.
	ErrDependency = errors.New("dependency error")
	// ErrUnsupportedValue reports a value with no textual representation.
	ErrUnsupportedValue = errors.New("unsupported value")
	// ErrIO reports a storage failure.
	ErrIO = errors.New("io error")

	ErrUnrecognized = fmt.Errorf("%w: unrecognized or unreadable resource", ErrFormat)
)

// Error is an error located in a file.  Kind is one of the sentinel
// errors above; Line is 1-based and 0 when unknown.
type Error struct {
	Kind error
	Path string
	Line int
	Msg  string
	Err  error
}

func Errorf(kind error, line int, msg string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Msg: fmt.Sprintf(msg, args...)}
}

// Wrap returns an *Error of the given kind wrapping err.  If err is
// already an *Error of any kind, it is returned unchanged so that the
// innermost position wins.
func Wrap(kind error, line int, err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	e := Errorf(kind, line, msg, args...)
	e.Err = err
	return e
}

// InFile sets the path on err if it is an *Error without one.
func InFile(err error, path string) error {
	var fe *Error
	if errors.As(err, &fe) && fe.Path == "" {
		fe.Path = path
	}
	return err
}

func (e *Error) Error() string {
	b := &strings.Builder{}
	if e.Path != "" {
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(b, ":%d", e.Line)
		}
		b.WriteString(": ")
	} else if e.Line > 0 {
		fmt.Fprintf(b, "line %d: ", e.Line)
	}
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("error")
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	res := make([]error, 0, 2)
	if e.Kind != nil {
		res = append(res, e.Kind)
	}
	if e.Err != nil {
		res = append(res, e.Err)
	}
	return res
}
