package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxPayloadBytes caps a single uploaded frame.
const MaxPayloadBytes = 16 << 20

// ImageField is the multipart field the browser client uploads frames in.
const ImageField = "image"

var errEmptyPayload = errors.New("empty image payload")

// readImage returns the uploaded frame, taken from the multipart "image"
// field when the request is a form and from the raw body otherwise.
func readImage(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxPayloadBytes)

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		data, err = readFormFile(c)
	} else {
		data, err = io.ReadAll(c.Request.Body)
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errEmptyPayload
	}
	return data, nil
}

func readFormFile(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile(ImageField)
	if err != nil {
		return nil, fmt.Errorf("read %q field: %w", ImageField, err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
