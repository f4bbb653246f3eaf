package csvresponse

import (
	"bytes"
	"strings"
)

// lineWriter writes CSV records terminated by CRLF. Unlike encoding/csv it
// accepts a glue of any length.
type lineWriter struct {
	buf     *bytes.Buffer
	glue    string
	special string
}

func newLineWriter(buf *bytes.Buffer, glue string) *lineWriter {
	return &lineWriter{buf: buf, glue: glue, special: glue + "\"\r\n"}
}

// Write appends one record. Writes to a bytes.Buffer cannot fail.
func (w *lineWriter) Write(record []string) {
	for i, field := range record {
		if i > 0 {
			w.buf.WriteString(w.glue)
		}
		w.writeField(field)
	}
	w.buf.WriteString("\r\n")
}

func (w *lineWriter) writeField(field string) {
	if !w.fieldNeedsQuotes(field) {
		w.buf.WriteString(field)
		return
	}
	w.buf.WriteByte('"')
	w.buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
	w.buf.WriteByte('"')
}

// fieldNeedsQuotes reports whether field contains a glue character, a quote
// or a line break.
func (w *lineWriter) fieldNeedsQuotes(field string) bool {
	return strings.ContainsAny(field, w.special)
}
