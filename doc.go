// Package csvresponse renders tabular data as a CSV file download.
//
// An [Encoder] takes a dataset of key-value rows and produces the bytes of a
// CSV file together with the headers needed to send it. The central entry
// points are [New], which accepts a slice or a lazy sequence of rows, and
// [Encoder.Encode]:
//
//	enc, err := csvresponse.New(rows, "report.csv", true, false)
//	data, err := enc.SetGlue(csvresponse.Semicolon).Encode()
//
// # Rows
//
// A row is an ordered list of columns. [Row] is the native form; a
// []KeyValue, a [Pairer], map[string]any, map[string]string,
// iter.Seq2[string, any] and plain []string or []any lists are accepted too,
// as are string-keyed maps and iter.Seq2 sequences of any value type.
// Map keys are sorted since maps have no order. List rows use the positions
// "0", "1", ... as keys.
//
// The heading row comes from the keys of the first row only. Later rows are
// written positionally, whatever their keys.
//
// # Configuration
//
// Setters return the Encoder so calls can be chained:
//
//   - [Encoder.SetGlue] — field separator (default [Comma])
//   - [Encoder.SetOutputCharset] — output charset (default utf-8)
//   - [Encoder.SetContentType] — media type (default text/csv)
//   - [Encoder.SetHeadingFormatter] — heading labels (default
//     [FirstUpperNoUnderscores], nil for raw keys)
//   - [Encoder.SetDataFormatter] — per-value hook (default none)
//
// A rejected setting leaves the previous value in place. The first such
// error is kept, reported by [Encoder.Err] and returned by Encode until
// [Encoder.ClearErr] discards it.
//
// Settings can also come from YAML or environment variables through
// [Config], [ParseConfig] and [LoadConfig].
//
// # Output
//
// Fields containing the glue, a double quote or a line break are quoted and
// embedded quotes doubled. Lines end with CRLF. When the output charset is
// not UTF-8 the buffer is transcoded; characters the charset lacks are
// transliterated, or dropped when the charset name carries an iconv style
// "//IGNORE" suffix. With a BOM requested, the mark for the output charset
// is prepended if the charset is one of the known Unicode encodings.
//
// [Encoder.Response] pairs the bytes with Content-Type and
// Content-Disposition values, and the Encoder itself is an [net/http.Handler].
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrInvalidInputKind] — dataset is not a sequence of rows
//   - [ErrInvalidGlue] — empty glue or glue with a reserved character
//   - [ErrInvalidFormatter] — formatter is not a function
//   - [ErrInvalidRowKind] — a row is not key-value; see [RowKindError]
//   - [ErrUnsupportedCharset] — output charset cannot be resolved
//   - [ErrInvalidConfig] — a [Config] failed to load or validate
package csvresponse
