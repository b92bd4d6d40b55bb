package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type ErrorTag string

const (
	IndexErrorTag        ErrorTag = "IndexError"
	LexicalErrorTag      ErrorTag = "LexicalError"
	LiteralRangeErrorTag ErrorTag = "LiteralRangeError"
	OverflowErrorTag     ErrorTag = "OverflowError"
	SyntaxErrorTag       ErrorTag = "SyntaxError"
	ValueErrorTag        ErrorTag = "ValueError"
	ZeroDivisionErrorTag ErrorTag = "ZeroDivisionError"
)

type Error struct {
	Tag   ErrorTag
	Err   error
	Extra map[string]any
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Tag)
	}

	var b strings.Builder
	b.WriteString(string(e.Tag))
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Details flattens the error chain into a JSON-friendly map.
func (e *Error) Details() map[string]any {
	tags := []any{e.Tag}
	for err := errors.Unwrap(e); err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok {
			tags = append(tags, e.Tag)
		}
	}

	o := map[string]any{
		"tags":    tags,
		"message": e.Error(),
	}
	if len(e.Extra) != 0 {
		o = lo.Assign(o, e.Extra)
	}
	return o
}

func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Tag == e.Tag && (t.Err == nil || errors.Is(e.Err, t.Err))
	}
	return false
}

func NewError(tag ErrorTag, format string, args ...any) *Error {
	return &Error{Tag: tag, Err: fmt.Errorf(format, args...)}
}
