package mjpeg

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Boundary separates parts in the multipart stream.
const Boundary = "frame"

// ContentType is the response content type of an MJPEG stream.
const ContentType = "multipart/x-mixed-replace; boundary=" + Boundary

// ErrStreamingUnsupported is returned when the response cannot be flushed.
var ErrStreamingUnsupported = errors.New("mjpeg: streaming unsupported")

// Writer writes JPEG parts to an HTTP response. Headers are sent with the
// first part, so the caller can still answer with an error status until then.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
	parts   int
}

func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	return &Writer{w: w, flusher: flusher}, nil
}

// Started reports whether the stream headers have been written.
func (mw *Writer) Started() bool {
	return mw.started
}

// Parts returns the number of parts written.
func (mw *Writer) Parts() int {
	return mw.parts
}

func (mw *Writer) start() {
	h := mw.w.Header()
	h.Set("Content-Type", ContentType)
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Connection", "keep-alive")
	mw.w.WriteHeader(http.StatusOK)
	mw.started = true
}

// WritePart writes one image/jpeg part and flushes it. An empty jpeg writes
// an empty part, which keeps the connection alive without changing the image.
func (mw *Writer) WritePart(jpeg []byte) error {
	if !mw.started {
		mw.start()
	}

	if _, err := io.WriteString(mw.w, "--"+Boundary+"\r\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(mw.w, "Content-Type: image/jpeg\r\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(mw.w, fmt.Sprintf("Content-Length: %d\r\n\r\n", len(jpeg))); err != nil {
		return err
	}
	if _, err := mw.w.Write(jpeg); err != nil {
		return err
	}
	if _, err := io.WriteString(mw.w, "\r\n"); err != nil {
		return err
	}
	mw.flusher.Flush()
	mw.parts++
	return nil
}
