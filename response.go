package csvresponse

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Response is an encoded download: header values plus body.
type Response struct {
	ContentType        string
	ContentDisposition string
	Body               []byte
}

// ContentLength returns the exact body length in bytes.
func (r *Response) ContentLength() int { return len(r.Body) }

// Header returns the response headers.
func (r *Response) Header() http.Header {
	h := make(http.Header, 3)
	h.Set("Content-Type", r.ContentType)
	h.Set("Content-Disposition", r.ContentDisposition)
	h.Set("Content-Length", strconv.Itoa(r.ContentLength()))
	return h
}

// Write sets the response headers and writes the body to w.
func (r *Response) Write(w http.ResponseWriter) error {
	for k, v := range r.Header() {
		w.Header()[k] = v
	}
	_, err := w.Write(r.Body)
	return err
}

// Response encodes the dataset and pairs it with its headers.
func (e *Encoder) Response() (*Response, error) {
	body, err := e.Encode()
	if err != nil {
		return nil, err
	}
	return &Response{
		ContentType:        e.contentType + "; charset=" + e.outputCharset,
		ContentDisposition: contentDisposition(e.filename),
		Body:               body,
	}, nil
}

// ServeHTTP sends the dataset as a file download.
func (e *Encoder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}
	resp, err := e.Response()
	if err != nil {
		logger.Error("csv encode failed",
			slog.String("filename", e.filename),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := resp.Write(w); err != nil {
		logger.Warn("csv write failed",
			slog.String("filename", e.filename),
			slog.Int("content_length", resp.ContentLength()),
			slog.String("error", err.Error()))
		return
	}
	logger.Debug("csv sent",
		slog.String("filename", e.filename),
		slog.Int("rows", e.Len()),
		slog.Int("content_length", resp.ContentLength()))
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// contentDisposition builds an attachment header. Non-ASCII names also get
// an RFC 6266 filename* parameter.
func contentDisposition(filename string) string {
	if filename == "" {
		return "attachment"
	}
	v := `attachment; filename="` + quoteEscaper.Replace(filename) + `"`
	if !isASCII(filename) {
		v += "; filename*=UTF-8''" + url.PathEscape(filename)
	}
	return v
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
