package csvresponse

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HeadingFunc turns a column key into a heading label.
type HeadingFunc func(string) string

// DataFunc transforms a value before it is escaped.
type DataFunc func(any) any

// HeadingFormatter is the interface form of [HeadingFunc].
type HeadingFormatter interface {
	FormatHeading(string) string
}

// DataFormatter is the interface form of [DataFunc].
type DataFormatter interface {
	FormatValue(any) any
}

// FirstUpperNoUnderscores replaces underscores with spaces and uppercases
// the first character. The rest of the label is left unchanged.
func FirstUpperNoUnderscores(heading string) string {
	heading = strings.ReplaceAll(heading, "_", " ")
	r, size := utf8.DecodeRuneInString(heading)
	if size == 0 {
		return heading
	}
	return cases.Upper(language.Und).String(string(r)) + heading[size:]
}

func headingFunc(formatter any) (HeadingFunc, error) {
	switch f := formatter.(type) {
	case nil:
		return nil, nil
	case HeadingFunc:
		return f, nil
	case func(string) string:
		if f == nil {
			return nil, nil
		}
		return f, nil
	case HeadingFormatter:
		return f.FormatHeading, nil
	default:
		return nil, fmt.Errorf("%w: heading formatter must be callable, %T given", ErrInvalidFormatter, formatter)
	}
}

func dataFunc(formatter any) (DataFunc, error) {
	switch f := formatter.(type) {
	case nil:
		return nil, nil
	case DataFunc:
		return f, nil
	case func(any) any:
		if f == nil {
			return nil, nil
		}
		return f, nil
	case func(string) string:
		if f == nil {
			return nil, nil
		}
		return func(v any) any { return f(stringify(v)) }, nil
	case DataFormatter:
		return f.FormatValue, nil
	default:
		return nil, fmt.Errorf("%w: data formatter must be callable, %T given", ErrInvalidFormatter, formatter)
	}
}
