package csvresponse

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Byte order marks by lowercased charset name. Only the UTF-8, UTF-16 and
// UTF-32 entries can be emitted; the others have no encoder and fail
// transcoding first.
// See https://en.wikipedia.org/wiki/Byte_order_mark#Byte_order_marks_by_encoding
var boms = map[string][]byte{
	"utf-8":      {0xEF, 0xBB, 0xBF},
	"utf-16be":   {0xFE, 0xFF},
	"utf-16le":   {0xFF, 0xFE},
	"utf-32be":   {0x00, 0x00, 0xFE, 0xFF},
	"utf-32le":   {0xFF, 0xFE, 0x00, 0x00},
	"utf-7":      {0x2B, 0x2F, 0x76, 0x38}, // one of many
	"utf-1":      {0xF7, 0x64, 0x4C},
	"utf-ebcdic": {0xDD, 0x73, 0x66, 0x73},
	"scsu":       {0x0E, 0xFE, 0xFF},
	"bocu-1":     {0xFB, 0xEE, 0x28},
	"bg-18030":   {0x84, 0x31, 0x95, 0x33},
}

// byteOrderMark returns a copy of the BOM for charset, or nil when the
// charset has no entry.
func byteOrderMark(charset string) []byte {
	name, _ := splitCharset(charset)
	bom, ok := boms[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return bytes.Clone(bom)
}

// Unicode encodings are written without their own BOM; the BOM table
// decides that.
var unicodeEncodings = map[string]encoding.Encoding{
	"utf-16":   xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM),
	"utf-16be": xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM),
	"utf-16le": xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM),
	"utf-32":   utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"utf-32be": utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"utf-32le": utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
}

type unmappable int

const (
	transliterate unmappable = iota
	ignore
)

// splitCharset separates an iconv style suffix ("//TRANSLIT", "//IGNORE")
// from the charset name.
func splitCharset(charset string) (string, unmappable) {
	name, suffix, _ := strings.Cut(strings.TrimSpace(charset), "//")
	policy := transliterate
	for _, flag := range strings.Split(strings.ToUpper(suffix), "//") {
		if flag == "IGNORE" {
			policy = ignore
		}
	}
	return name, policy
}

func lookupCharset(name string) (encoding.Encoding, error) {
	if enc, ok := unicodeEncodings[strings.ToLower(name)]; ok {
		return enc, nil
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedCharset, name)
}

// transcode converts UTF-8 src to charset. Runes the charset cannot
// represent are substituted (see transliterateRune) or, with //IGNORE,
// dropped.
func transcode(src []byte, charset string) ([]byte, error) {
	name, policy := splitCharset(charset)
	enc, err := lookupCharset(name)
	if err != nil {
		return nil, err
	}
	if out, err := enc.NewEncoder().Bytes(src); err == nil {
		return out, nil
	}
	e := enc.NewEncoder()
	var b strings.Builder
	for _, r := range string(src) {
		if fits(e, string(r)) {
			b.WriteRune(r)
			continue
		}
		if policy == ignore {
			continue
		}
		b.WriteString(transliterateRune(e, r))
	}
	out, err := e.String(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnsupportedCharset, name, err)
	}
	return []byte(out), nil
}

// Typographic runes NFKD leaves alone.
var substitutes = map[rune]string{
	'‘': "'", '’': "'", '‚': "'", '‛': "'", '′': "'",
	'“': `"`, '”': `"`, '„': `"`, '‟': `"`, '″': `"`,
	'‐': "-", '‒': "-", '–': "-", '—': "-", '―': "-", '−': "-",
	'«': "<<", '»': ">>", '‹': "<", '›': ">",
	'•': "*", '·': ".",
	'€': "EUR", '£': "GBP", '¥': "JPY",
}

// transliterateRune returns the replacement for a rune e cannot encode: a
// fixed substitute, else the rune's compatibility decomposition without
// combining marks, else "?".
func transliterateRune(e *encoding.Encoder, r rune) string {
	if s, ok := substitutes[r]; ok && fits(e, s) {
		return s
	}
	if s := stripMarks(string(r)); s != "" && s != string(r) && fits(e, s) {
		return s
	}
	return "?"
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return ""
	}
	return out
}

func fits(e *encoding.Encoder, s string) bool {
	_, err := e.String(s)
	return err == nil
}
