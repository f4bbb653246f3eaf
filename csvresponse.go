package csvresponse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"reflect"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	ErrInvalidInputKind   = errors.New("invalid input kind")
	ErrInvalidGlue        = errors.New("invalid glue")
	ErrInvalidFormatter   = errors.New("invalid formatter")
	ErrInvalidRowKind     = errors.New("invalid row kind")
	ErrUnsupportedCharset = errors.New("unsupported charset")
	ErrInvalidConfig      = errors.New("invalid config")
)

// Standard glues.
const (
	Comma     = ","
	Semicolon = ";"
	Tab       = "\t"
)

// Defaults applied by [New].
const (
	DefaultFilename    = "output.csv"
	DefaultCharset     = "utf-8"
	DefaultContentType = "text/csv"
)

// RowKindError reports a dataset element that is not a key-value row.
// It wraps [ErrInvalidRowKind].
type RowKindError struct {
	Index int
	Type  string
}

func (e *RowKindError) Error() string {
	return fmt.Sprintf("%s: row %d must be a key-value row, %s given", ErrInvalidRowKind, e.Index, e.Type)
}

func (e *RowKindError) Unwrap() error { return ErrInvalidRowKind }

// Iterable is a lazy dataset. It is drained once by [New].
type Iterable interface {
	All() iter.Seq[any]
}

// Encoder converts a dataset into a CSV download.
//
// The dataset is fixed at construction; configuration may change until
// [Encoder.Encode] is called, and Encode may be called any number of times.
// A rejected setting is recorded and blocks encoding until
// [Encoder.ClearErr] is called; the previous value stays in effect. An
// Encoder is not safe for concurrent mutation.
type Encoder struct {
	data       []any
	filename   string
	addHeading bool
	addBom     bool

	glue             string
	outputCharset    string
	contentType      string
	headingFormatter HeadingFunc
	dataFormatter    DataFunc

	logger *slog.Logger
	err    error
}

// New creates an Encoder for data. Slices, arrays, [Iterable] values and
// iter.Seq of any, [Row] or map[string]any are accepted; lazy inputs are
// materialized immediately. Any other kind fails with [ErrInvalidInputKind].
func New(data any, filename string, addHeading, addBom bool) (*Encoder, error) {
	rows, err := normalizeDataset(data)
	if err != nil {
		return nil, err
	}
	return newEncoder(rows, filename, addHeading, addBom), nil
}

func newEncoder(rows []any, filename string, addHeading, addBom bool) *Encoder {
	return &Encoder{
		data:             rows,
		filename:         filename,
		addHeading:       addHeading,
		addBom:           addBom,
		glue:             Comma,
		outputCharset:    DefaultCharset,
		contentType:      DefaultContentType,
		headingFormatter: FirstUpperNoUnderscores,
	}
}

func normalizeDataset(data any) ([]any, error) {
	switch d := data.(type) {
	case nil:
		return nil, fmt.Errorf("%w: data must be a sequence of rows, nil given", ErrInvalidInputKind)
	case []any:
		rows := make([]any, len(d))
		copy(rows, d)
		return rows, nil
	case []Row:
		rows := make([]any, len(d))
		for i, r := range d {
			rows[i] = r
		}
		return rows, nil
	case Iterable:
		return collect(d.All()), nil
	case iter.Seq[any]:
		return collect(d), nil
	case iter.Seq[Row]:
		return collect(d), nil
	case iter.Seq[map[string]any]:
		return collect(d), nil
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		rows := make([]any, v.Len())
		for i := range rows {
			rows[i] = v.Index(i).Interface()
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%w: data must be a sequence of rows, %T given", ErrInvalidInputKind, data)
	}
}

// SetGlue sets the field separator. Empty glue and glue containing a line
// break or a double quote are rejected with [ErrInvalidGlue].
func (e *Encoder) SetGlue(glue string) *Encoder {
	if err := validateGlue(glue); err != nil {
		return e.fail(err)
	}
	e.glue = glue
	return e
}

func validateGlue(glue string) error {
	if glue == "" || strings.ContainsAny(glue, "\n\r\"") {
		return fmt.Errorf("%w: glue cannot be empty or contain a reserved character, %q given", ErrInvalidGlue, glue)
	}
	return nil
}

// SetOutputCharset sets the charset the output is transcoded to. Names are
// resolved at encode time.
func (e *Encoder) SetOutputCharset(charset string) *Encoder {
	e.outputCharset = charset
	return e
}

// SetContentType sets the media type reported by [Encoder.Response].
func (e *Encoder) SetContentType(contentType string) *Encoder {
	e.contentType = contentType
	return e
}

// SetHeadingFormatter sets the function applied to every heading label.
// Accepts nil (raw keys), a func(string) string, a [HeadingFunc] or a
// [HeadingFormatter]. Default: [FirstUpperNoUnderscores].
func (e *Encoder) SetHeadingFormatter(formatter any) *Encoder {
	fn, err := headingFunc(formatter)
	if err != nil {
		return e.fail(err)
	}
	e.headingFormatter = fn
	return e
}

// SetDataFormatter sets the function applied to every value before it is
// escaped. Accepts nil, a func(any) any, a [DataFunc], a func(string) string
// or a [DataFormatter].
func (e *Encoder) SetDataFormatter(formatter any) *Encoder {
	fn, err := dataFunc(formatter)
	if err != nil {
		return e.fail(err)
	}
	e.dataFormatter = fn
	return e
}

// SetLogger sets the logger used by [Encoder.ServeHTTP].
func (e *Encoder) SetLogger(logger *slog.Logger) *Encoder {
	e.logger = logger
	return e
}

func (e *Encoder) fail(err error) *Encoder {
	if e.err == nil {
		e.err = err
	}
	return e
}

// Err returns the first error recorded by a setter.
func (e *Encoder) Err() error { return e.err }

// ClearErr discards the recorded setter error. Rejected values were never
// applied, so the Encoder keeps its previous settings.
func (e *Encoder) ClearErr() *Encoder {
	e.err = nil
	return e
}

// Glue returns the field separator.
func (e *Encoder) Glue() string { return e.glue }

// OutputCharset returns the configured output charset.
func (e *Encoder) OutputCharset() string { return e.outputCharset }

// ContentType returns the configured media type.
func (e *Encoder) ContentType() string { return e.contentType }

// Filename returns the suggested download name.
func (e *Encoder) Filename() string { return e.filename }

// Len returns the number of rows in the dataset.
func (e *Encoder) Len() int { return len(e.data) }

// Encode renders the dataset. An empty dataset yields an empty buffer, with
// neither heading nor BOM.
func (e *Encoder) Encode() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(e.data) == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	cw := newLineWriter(&buf, e.glue)
	for n, item := range e.data {
		row, ok := toRow(item)
		if !ok {
			return nil, &RowKindError{Index: n, Type: fmt.Sprintf("%T", item)}
		}
		if n == 0 && e.addHeading {
			labels := row.Keys()
			if e.headingFormatter != nil {
				for i, label := range labels {
					labels[i] = e.headingFormatter(label)
				}
			}
			cw.Write(labels)
		}
		cw.Write(e.formatValues(row))
	}
	out := buf.Bytes()
	if !strings.EqualFold(e.outputCharset, DefaultCharset) {
		var err error
		if out, err = transcode(out, e.outputCharset); err != nil {
			return nil, err
		}
	}
	if e.addBom {
		if bom := byteOrderMark(e.outputCharset); bom != nil {
			out = append(bom, out...)
		}
	}
	return out, nil
}

func (e *Encoder) formatValues(row Row) []string {
	values := make([]string, len(row))
	for i, kv := range row {
		v := kv.Value
		if e.dataFormatter != nil {
			v = e.dataFormatter(v)
		}
		values[i] = stringify(v)
	}
	return values
}

// WriteTo encodes the dataset and writes it to w.
func (e *Encoder) WriteTo(w io.Writer) (int64, error) {
	data, err := e.Encode()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}
